package convention

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration file names, checked in order in every directory.
const (
	FileName     = "routescope.json"
	YAMLFileName = "routescope.yaml"
)

// RouteConfig declares one convention route.
type RouteConfig struct {
	Template string            `json:"Template" yaml:"Template"`
	Defaults map[string]string `json:"Defaults,omitempty" yaml:"Defaults,omitempty"`
}

// Config is the project configuration file.
type Config struct {
	ConventionalRoutes []RouteConfig `json:"ConventionalRoutes" yaml:"ConventionalRoutes"`
}

// Routes parses every configured template. See ParseAll.
func (c *Config) Routes() ([]*Route, error) {
	if c == nil {
		return nil, nil
	}
	return ParseAll(c.ConventionalRoutes)
}

// ParseAll parses all templates before returning any. If one or more fail,
// no routes are returned and the error lists every failing template.
func ParseAll(cfgs []RouteConfig) ([]*Route, error) {
	routes := make([]*Route, 0, len(cfgs))
	var errs []error
	for _, c := range cfgs {
		r, err := Parse(c.Template, c.Defaults)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		routes = append(routes, r)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("convention: %d of %d templates failed to parse:\n%w", len(errs), len(cfgs), errors.Join(errs...))
	}
	return routes, nil
}

// LoadConfig reads a configuration file. Files with a .yaml or .yml
// extension are decoded as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("convention: read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("convention: decode config %s: %w", path, err)
	}
	return &cfg, nil
}

// FindNearest searches start and its parent directories for a configuration
// file. start may name a file, in which case the search begins in its
// directory. It reports false when the filesystem root is reached without a
// match.
func FindNearest(start string) (string, bool, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("convention: resolve %q: %w", start, err)
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		for _, name := range []string{FileName, YAMLFileName} {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			switch {
			case err == nil && !info.IsDir():
				return candidate, true, nil
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return "", false, fmt.Errorf("convention: stat %s: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadNearest finds the configuration nearest to start and parses its
// routes. When no configuration exists it returns no routes, an empty path
// and no error.
func LoadNearest(start string) ([]*Route, string, error) {
	path, ok, err := FindNearest(start)
	if err != nil || !ok {
		return nil, "", err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	routes, err := cfg.Routes()
	if err != nil {
		return nil, path, err
	}
	return routes, path, nil
}
