package openapi

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routescope/routing"
)

// DocsUI selects which interactive documentation UI to serve.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// HandleConfig configures the endpoints registered by Handle.
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: spec info.title).
	Title string

	// JSONFilename is the path for the JSON document endpoint
	// (default: "schema.json"). Set to "-" to disable. Relative paths are
	// joined with the base path, absolute paths are used as-is.
	JSONFilename string

	// YAMLFilename is the path for the YAML document endpoint
	// (default: "schema.yaml"). Set to "-" to disable.
	YAMLFilename string

	// DisableDocs disables the interactive HTML docs UI endpoint.
	DisableDocs bool

	// SwaggerUIConfig provides additional SwaggerUIBundle configuration
	// options, rendered as JavaScript object properties next to url and
	// dom_id. Only used with DocsSwaggerUI.
	SwaggerUIConfig map[string]any
}

func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "schema.json"
	}
	return cfg.JSONFilename
}

func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "schema.yaml"
	}
	return cfg.YAMLFilename
}

// resolvePath returns the full route path for a filename.
func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	if basePath == "" {
		return "/" + filename
	}
	return basePath + "/" + filename
}

// Handle registers endpoints serving the document built from controllers
// under basePath:
//
//	<basePath>/            - interactive HTML docs (unless DisableDocs)
//	<JSONFilename path>    - document as JSON (unless JSONFilename is "-")
//	<YAMLFilename path>    - document as YAML (unless YAMLFilename is "-")
//
// The document is built on first request and cached. Pass a nil cfg for
// defaults:
//
//	spec.Handle(mux, "/docs", controllers, nil)
func (s *Spec) Handle(mux *http.ServeMux, basePath string, controllers []routing.Controller, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	basePath = strings.TrimRight(basePath, "/")

	build := sync.OnceValue(func() *Document {
		return s.Build(controllers)
	})

	var jsonPath, yamlPath string

	if jsonFile := cfg.jsonFilename(); jsonFile != "-" {
		jsonPath = resolvePath(basePath, jsonFile)
		serveEncoded(mux, jsonPath, "application/json", func() ([]byte, error) {
			return build().MarshalIndentJSON()
		})
	}

	if yamlFile := cfg.yamlFilename(); yamlFile != "-" {
		yamlPath = resolvePath(basePath, yamlFile)
		serveEncoded(mux, yamlPath, "application/x-yaml", func() ([]byte, error) {
			return yaml.Marshal(build())
		})
	}

	if !cfg.DisableDocs {
		specURL := jsonPath
		if specURL == "" {
			specURL = yamlPath
		}
		if specURL != "" {
			s.registerDocs(mux, basePath, cfg, specURL)
		}
	}
}

// serveEncoded registers a handler serving the lazily encoded document.
func serveEncoded(mux *http.ServeMux, path, contentType string, encode func() ([]byte, error)) {
	encoded := sync.OnceValues(encode)
	mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		data, err := encoded()
		if err != nil {
			http.Error(w, "failed to serialize OpenAPI document", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// registerDocs registers a handler that serves the interactive HTML documentation UI.
func (s *Spec) registerDocs(mux *http.ServeMux, basePath string, cfg *HandleConfig, specURL string) {
	page := sync.OnceValue(func() []byte {
		title := cfg.Title
		if title == "" {
			title = s.info.Title
		}

		switch cfg.UI {
		case DocsRapiDoc:
			return []byte(rapidocTemplate(title, specURL))
		case DocsRedoc:
			return []byte(redocTemplate(title, specURL))
		default:
			return []byte(swaggerUITemplate(title, specURL, cfg.SwaggerUIConfig))
		}
	})
	handler := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page())
	}
	if basePath == "" {
		mux.HandleFunc("GET /{$}", handler)
		return
	}
	mux.HandleFunc("GET "+basePath, handler)
	mux.HandleFunc("GET "+basePath+"/{$}", handler)
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %s: %s", k, v)
		}
		extra = buf.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra)
}

func rapidocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), specPath)
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
