package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"pkt.systems/pslog"

	"github.com/vitalvas/routescope/internal/middleware"
	"github.com/vitalvas/routescope/openapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(baseLogger pslog.Logger, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <manifest>",
		Short: "Serve the resolved routes as OpenAPI documents with an interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := loadSettings(v)
			logger := baseLogger.With("component", "docs")

			ui, err := parseDocsUI(v.GetString("ui"))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			docs := &docsHandler{}
			var res *resolution
			reload := func() error {
				next, err := resolveManifest(ctx, baseLogger, cfg, args[0])
				if err != nil {
					return err
				}
				docs.swap(buildDocs(logger, cfg, next, ui))
				res = next
				return nil
			}
			if err := reload(); err != nil {
				return err
			}

			if v.GetBool("watch") {
				watcher, err := newFileWatcher(res.manifestPath, res.configPath)
				if err != nil {
					return err
				}
				go watcher.run(ctx, logger, reload)
			}

			headers, err := middleware.SecurityHeaders(middleware.SecurityHeadersConfig{FrameOption: "SAMEORIGIN"})
			if err != nil {
				return err
			}
			handler := middleware.Chain(docs,
				middleware.RequestID(middleware.RequestIDConfig{Logger: logger}),
				middleware.AccessLog(),
				middleware.Recovery(),
				headers,
			)

			ln, err := net.Listen("tcp", cfg.listen)
			if err != nil {
				return err
			}

			return serve(ctx, baseLogger, ln, handler, cfg.docsPath)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "127.0.0.1:8080", "listen address")
	flags.String("docs-path", "/docs", "base path of the documentation endpoints")
	flags.String("ui", "swagger", "documentation viewer: swagger, rapidoc or redoc")
	flags.Bool("watch", false, "rebuild the documents when the manifest or configuration file changes")
	bindFlags(v, flags, "listen", "docs-path", "ui", "watch")

	return cmd
}

func parseDocsUI(s string) (openapi.DocsUI, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "swagger":
		return openapi.DocsSwaggerUI, nil
	case "rapidoc":
		return openapi.DocsRapiDoc, nil
	case "redoc":
		return openapi.DocsRedoc, nil
	default:
		return 0, fmt.Errorf("unknown docs ui %q (want swagger, rapidoc or redoc)", s)
	}
}

// docsHandler serves the most recently built documentation mux.
type docsHandler struct {
	current atomic.Pointer[http.ServeMux]
}

func (h *docsHandler) swap(mux *http.ServeMux) {
	h.current.Store(mux)
}

func (h *docsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := h.current.Load()
	if mux == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	mux.ServeHTTP(w, r)
}

// buildDocs registers the documentation endpoints for one resolution on a
// fresh mux.
func buildDocs(logger pslog.Logger, cfg settings, res *resolution, ui openapi.DocsUI) *http.ServeMux {
	spec := newSpec(cfg, res.manifest)

	doc := spec.Build(res.controllers)
	fields := []any{"paths", len(doc.Paths)}
	if data, err := doc.MarshalIndentJSON(); err == nil {
		fields = append(fields, "size", formatBytes(len(data)))
	}
	logger.Info("docs.ready", fields...)

	mux := http.NewServeMux()
	spec.Handle(mux, cfg.docsPath, res.controllers, &openapi.HandleConfig{UI: ui})
	return mux
}

func formatBytes(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.ReplaceAll(humanize.Bytes(uint64(n)), " ", "")
}

// serve runs the HTTP server on ln until ctx is canceled.
func serve(ctx context.Context, logger pslog.Logger, ln net.Listener, handler http.Handler, docsPath string) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("serve.start", "addr", ln.Addr().String(), "docs", docsPath)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("serve.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
