package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"github.com/vitalvas/routescope/internal/version"
)

const testManifest = `
assembly: bin/Shop.Api.dll
types:
  - name: WidgetsController
    namespace: Shop.Api.Controllers
    base: {name: ControllerBase, namespace: Microsoft.AspNetCore.Mvc}
    methods:
      - name: Get
        visibility: public
        annotations:
          - type: HttpGet
            args: ["/widgets/{id:int}"]
      - name: Index
        visibility: public
  - name: OrdersController
    namespace: Shop.Api.Controllers
    base: {name: ControllerBase, namespace: Microsoft.AspNetCore.Mvc}
    annotations:
      - type: ApiController
      - type: Route
        args: ["api/[controller]"]
    methods:
      - name: List
        visibility: public
        annotations: [{type: HttpGet}]
`

const testConfig = `{"ConventionalRoutes": [{"Template": "{controller=Home}/{action=Index}/{id?}"}]}`

func executeRootCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(pslog.NewStructured(context.Background(), io.Discard))
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeProject lays out a manifest with the configuration file next to it
// and returns the manifest path.
func writeProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	manifest := filepath.Join(dir, "shop.routes.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o600))
	if config != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "routescope.json"), []byte(config), 0o600))
	}
	return manifest
}

// tableRows splits the text output into whitespace-separated fields,
// skipping the header.
func tableRows(t *testing.T, out string) [][]string {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, []string{"METHODS", "PATH", "ACTION"}, strings.Fields(lines[0]))

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

type decodedController struct {
	ControllerName string
	ClassName      string
	Actions        []struct {
		MethodName     string
		IsConventional bool
		Routes         []struct {
			Path    string
			Methods []string
		}
	}
}

func TestRootCommandText(t *testing.T) {
	t.Setenv("ROUTESCOPE_FORMAT", "")
	manifest := writeProject(t, testConfig)

	stdout, _, err := executeRootCommand(t, manifest)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"GET", "/widgets/{id:int}", "Widgets.Get"},
		{"GET,POST,PUT,DELETE,PATCH,HEAD,OPTIONS", "/Widgets/Index/{id?}", "Widgets.Index", "*"},
		{"GET", "/api/Orders", "Orders.List"},
	}, tableRows(t, stdout))

	t.Run("controller filter", func(t *testing.T) {
		stdout, _, err := executeRootCommand(t, "--controller", "OrdersController", manifest)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"GET", "/api/Orders", "Orders.List"}}, tableRows(t, stdout))
	})

	t.Run("without configuration", func(t *testing.T) {
		stdout, _, err := executeRootCommand(t, writeProject(t, ""))
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"GET", "/widgets/{id:int}", "Widgets.Get"},
			{"GET", "/api/Orders", "Orders.List"},
		}, tableRows(t, stdout))
	})
}

func TestRootCommandJSON(t *testing.T) {
	manifest := writeProject(t, testConfig)

	stdout, _, err := executeRootCommand(t, "-f", "json", manifest)
	require.NoError(t, err)

	var controllers []decodedController
	require.NoError(t, json.Unmarshal([]byte(stdout), &controllers))
	require.Len(t, controllers, 2)

	assert.Equal(t, "Widgets", controllers[0].ControllerName)
	require.Len(t, controllers[0].Actions, 2)
	index := controllers[0].Actions[1]
	assert.True(t, index.IsConventional)
	require.Len(t, index.Routes, 1)
	assert.Equal(t, "/Widgets/Index/{id?}", index.Routes[0].Path)
	assert.Len(t, index.Routes[0].Methods, 7)

	t.Run("format from environment", func(t *testing.T) {
		t.Setenv("ROUTESCOPE_FORMAT", "json")

		stdout, _, err := executeRootCommand(t, manifest)
		require.NoError(t, err)
		assert.True(t, json.Valid([]byte(stdout)))
	})
}

func TestRootCommandYAML(t *testing.T) {
	t.Setenv("ROUTESCOPE_FORMAT", "")
	manifest := writeProject(t, testConfig)

	stdout, _, err := executeRootCommand(t, "--format", "yaml", manifest)
	require.NoError(t, err)
	assert.Contains(t, stdout, "- controllerName: Widgets\n")
	assert.Contains(t, stdout, "path: /Widgets/Index/{id?}")
}

func TestRootCommandOpenAPI(t *testing.T) {
	t.Setenv("ROUTESCOPE_FORMAT", "")
	manifest := writeProject(t, testConfig)

	stdout, _, err := executeRootCommand(t, "-f", "openapi", manifest)
	require.NoError(t, err)

	var doc struct {
		OpenAPI string
		Info    struct{ Title, Version string }
		Paths   map[string]map[string]any
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "Shop.Api", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Contains(t, doc.Paths, "/widgets/{id}")
	assert.Contains(t, doc.Paths, "/Widgets/Index/{id}")
	assert.Contains(t, doc.Paths, "/api/Orders")
	assert.Len(t, doc.Paths["/Widgets/Index/{id}"], 7)

	t.Run("title and version flags", func(t *testing.T) {
		stdout, _, err := executeRootCommand(t, "-f", "openapi", "--title", "Shop", "--api-version", "2.1.0", manifest)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, "Shop", doc.Info.Title)
		assert.Equal(t, "2.1.0", doc.Info.Version)
	})
}

func TestRootCommandExplicitConfig(t *testing.T) {
	t.Setenv("ROUTESCOPE_FORMAT", "")
	manifest := writeProject(t, testConfig)

	config := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(config, []byte("ConventionalRoutes:\n  - Template: \"app/{controller}/{action}\"\n"), 0o600))

	stdout, _, err := executeRootCommand(t, "--config", config, manifest)
	require.NoError(t, err)
	assert.Contains(t, tableRows(t, stdout), []string{"GET,POST,PUT,DELETE,PATCH,HEAD,OPTIONS", "/app/Widgets/Index", "Widgets.Index", "*"})
}

func TestRootCommandErrors(t *testing.T) {
	t.Setenv("ROUTESCOPE_FORMAT", "")
	manifest := writeProject(t, testConfig)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no manifest", args: nil, want: "accepts 1 arg"},
		{name: "unknown format", args: []string{"-f", "xml", manifest}, want: `unknown format "xml"`},
		{name: "missing manifest", args: []string{filepath.Join(t.TempDir(), "missing.yaml")}, want: "missing.yaml"},
		{name: "missing config", args: []string{"--config", filepath.Join(t.TempDir(), "none.json"), manifest}, want: "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeRootCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, err := executeRootCommand(t, "version")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, version.Module()+" "+version.Current()+"\n", stdout)
}
