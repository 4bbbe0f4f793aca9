package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routescope/metadata"
	"github.com/vitalvas/routescope/openapi"
	"github.com/vitalvas/routescope/routing"
)

type outputFormat string

const (
	formatText    outputFormat = "text"
	formatJSON    outputFormat = "json"
	formatYAML    outputFormat = "yaml"
	formatOpenAPI outputFormat = "openapi"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case "":
		return formatText, nil
	case formatText, formatJSON, formatYAML, formatOpenAPI:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, yaml or openapi)", s)
	}
}

// newSpec returns the OpenAPI builder for a manifest. The title defaults to
// the assembly file name without extension.
func newSpec(cfg settings, manifest *metadata.Manifest) *openapi.Spec {
	title := strings.TrimSpace(cfg.title)
	if title == "" && manifest != nil && manifest.Assembly != "" {
		base := filepath.Base(manifest.Assembly)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" {
		title = "routescope"
	}

	version := cfg.apiVersion
	if version == "" {
		version = "1.0.0"
	}

	return openapi.NewSpec(openapi.Info{Title: title, Version: version})
}

func render(w io.Writer, format outputFormat, controllers []routing.Controller, spec *openapi.Spec) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(controllers, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(controllers); err != nil {
			return err
		}
		return enc.Close()

	case formatOpenAPI:
		return spec.Build(controllers).Encode(w, openapi.FormatJSON)

	default:
		return renderTable(w, controllers)
	}
}

// renderTable prints one row per route. Conventional routes are marked
// with an asterisk.
func renderTable(w io.Writer, controllers []routing.Controller) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHODS\tPATH\tACTION\t")

	for _, c := range controllers {
		for _, a := range c.Actions {
			marker := ""
			if a.IsConventional {
				marker = "*"
			}
			for _, r := range a.Routes {
				fmt.Fprintf(tw, "%s\t%s\t%s.%s\t%s\n",
					strings.Join(r.Methods.Strings(), ","), r.Path, c.ControllerName, a.MethodName, marker)
			}
		}
	}

	return tw.Flush()
}
