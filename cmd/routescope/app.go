package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"pkt.systems/pslog"

	"github.com/vitalvas/routescope/convention"
	"github.com/vitalvas/routescope/metadata"
	"github.com/vitalvas/routescope/resolve"
	"github.com/vitalvas/routescope/routing"
)

func submain(ctx context.Context) int {
	baseLogger := pslog.LoggerFromEnv(context.Background(),
		pslog.WithEnvPrefix("ROUTESCOPE_LOG_"),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeStructured, MinLevel: pslog.InfoLevel}),
		pslog.WithEnvWriter(os.Stderr),
	).With("app", "routescope")
	cmd := newRootCommand(baseLogger)
	ctx = withSignalCancel(ctx)
	if _, err := cmd.ExecuteContextC(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "routescope: %s\n", err)
		}
		return 1
	}
	return 0
}

// settings is the effective CLI configuration after flag and environment
// resolution.
type settings struct {
	config           string
	format           string
	inferVerbs       bool
	includeNonPublic bool
	controllers      []string
	title            string
	apiVersion       string
	listen           string
	docsPath         string
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		config:           strings.TrimSpace(v.GetString("config")),
		format:           strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		inferVerbs:       v.GetBool("infer-verbs"),
		includeNonPublic: v.GetBool("include-non-public"),
		controllers:      v.GetStringSlice("controller"),
		title:            v.GetString("title"),
		apiVersion:       v.GetString("api-version"),
		listen:           v.GetString("listen"),
		docsPath:         v.GetString("docs-path"),
	}
}

func newRootCommand(baseLogger pslog.Logger) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "routescope <manifest>",
		Short:         "routescope lists the HTTP routes a compiled web service exposes",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		Example: `
  # Route table of a manifest, convention routes from the nearest routescope.json
  routescope shop.routes.yaml

  # Only two controllers, as JSON, with verbs inferred from action names
  routescope --controller Widgets --controller Orders --infer-verbs -f json shop.routes.yaml

  # OpenAPI document with an explicit configuration file
  ROUTESCOPE_CONFIG=./routescope.json routescope -f openapi --title "Shop API" shop.routes.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := loadSettings(v)

			format, err := parseFormat(cfg.format)
			if err != nil {
				return err
			}

			res, err := resolveManifest(cmd.Context(), baseLogger, cfg, args[0])
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), format, res.controllers, newSpec(cfg, res.manifest))
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String("config", "", "path to the convention route configuration (default: nearest routescope.json or routescope.yaml above the binary)")
	persistent.Bool("infer-verbs", false, "infer the verb of fixed convention routes from the action name prefix")
	persistent.Bool("include-non-public", false, "treat non-public methods as actions")
	persistent.StringSlice("controller", nil, "only resolve the named controllers (repeatable, with or without the Controller suffix)")
	persistent.String("title", "", "OpenAPI document title (default: assembly name)")
	persistent.String("api-version", "1.0.0", "OpenAPI document version")

	flags := cmd.Flags()
	flags.StringP("format", "f", string(formatText), "output format: text, json, yaml or openapi")

	bindFlags(v, persistent, "config", "infer-verbs", "include-non-public", "controller", "title", "api-version")
	bindFlags(v, flags, "format")

	v.SetEnvPrefix("ROUTESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(
		newServeCommand(baseLogger, v),
		newVersionCommand(),
	)

	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		flag := flags.Lookup(name)
		if flag == nil {
			panic(fmt.Sprintf("flag %q not found", name))
		}
		if err := v.BindPFlag(name, flag); err != nil {
			panic(err)
		}
	}
}

// resolution is one resolved manifest together with the files it was
// built from.
type resolution struct {
	manifestPath string
	configPath   string
	manifest     *metadata.Manifest
	controllers  []routing.Controller
}

// resolveManifest loads the manifest and its convention routes and resolves
// the route inventory.
func resolveManifest(ctx context.Context, baseLogger pslog.Logger, cfg settings, manifestPath string) (*resolution, error) {
	logger := baseLogger.With("manifest", manifestPath)

	manifest, err := metadata.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	routes, configPath, err := loadConventionRoutes(cfg.config, manifestPath, manifest)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		logger.Info("config.loaded", "path", configPath, "templates", len(routes))
	} else {
		logger.Debug("config.none")
	}

	opts := []resolve.Option{
		resolve.WithConventionRoutes(routes),
		resolve.WithControllers(cfg.controllers...),
		resolve.WithNonPublicActions(cfg.includeNonPublic),
	}
	if cfg.inferVerbs {
		opts = append(opts, resolve.WithFeatures(resolve.FeatureInferVerbFromName))
	}

	controllers, err := resolve.New(manifest, opts...).Controllers(pslog.ContextWithLogger(ctx, logger))
	if err != nil {
		return nil, err
	}
	return &resolution{
		manifestPath: manifestPath,
		configPath:   configPath,
		manifest:     manifest,
		controllers:  controllers,
	}, nil
}

// loadConventionRoutes loads the explicit configuration file, or searches
// upwards from the analyzed binary (falling back to the manifest directory)
// for the nearest one.
func loadConventionRoutes(explicit, manifestPath string, manifest *metadata.Manifest) ([]*convention.Route, string, error) {
	if explicit != "" {
		cfg, err := convention.LoadConfig(explicit)
		if err != nil {
			return nil, "", err
		}
		routes, err := cfg.Routes()
		if err != nil {
			return nil, "", err
		}
		return routes, explicit, nil
	}

	return convention.LoadNearest(searchStart(manifestPath, manifest))
}

func searchStart(manifestPath string, manifest *metadata.Manifest) string {
	dir := filepath.Dir(manifestPath)
	if manifest.Assembly == "" {
		return dir
	}
	if filepath.IsAbs(manifest.Assembly) {
		return manifest.Assembly
	}
	return filepath.Join(dir, manifest.Assembly)
}

func withSignalCancel(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signals)
	}()
	return ctx
}
