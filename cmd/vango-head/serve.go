package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/internal/manifest"
	"github.com/vango-dev/head/pkg/live"
	"github.com/vango-dev/head/pkg/metrics"
	"github.com/vango-dev/head/pkg/render"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr   string
	file   string
	mount  []string
	pretty bool
}

func serveCmd(a *app) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live head over WebSocket",
		Long: `Serve a page whose head follows the components mounted from a
manifest. Connected browsers receive a snapshot and then patches as
components are mounted and unmounted.

Endpoints:
  GET    /                          rendered page
  GET    /_head                     managed entries as JSON
  GET    /_head/components          manifest components
  POST   /_head/components/{name}   mount a component
  DELETE /_head/components/{name}   unmount a component
  GET    /_head/ws                  live WebSocket
  GET    /metrics                   Prometheus metrics

Examples:
  vango-head serve -f head.yaml --mount layout
  vango-head serve --addr 0.0.0.0:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Address to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "head.yaml", "Head manifest")
	cmd.Flags().StringArrayVar(&opts.mount, "mount", nil, "Component to mount at startup (repeatable)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Put every head node on its own line")

	return cmd
}

// server wires a live document, its hub and the HTTP routes.
type server struct {
	doc        *live.Document
	hub        *live.Hub
	components *components
	handler    http.Handler
}

func (a *app) newServer(m *manifest.Manifest, reg *prometheus.Registry, pretty bool) *server {
	met := metrics.New(metrics.WithRegistry(reg))
	doc := live.NewDocument(live.WithLogger(a.logger), live.WithMetrics(met))
	hub := live.NewHub(doc, a.logger)
	hub.OnClientsChanged = met.SetClients

	router := live.NewRouter(doc, hub, live.RouterConfig{
		LiveURL: a.cfg.Server.LiveURL,
		Lang:    a.cfg.Render.Lang,
		Render: render.RendererConfig{
			Pretty:      pretty || a.cfg.Render.Pretty,
			DefaultMeta: a.cfg.Render.DefaultMeta,
		},
		Gatherer: reg,
		Logger:   a.logger,
	})
	comps := newComponents(m, doc, hub, a.logger)
	comps.routes(router)

	return &server{doc: doc, hub: hub, components: comps, handler: router}
}

func (s *server) close() {
	s.hub.Close()
	s.doc.Close()
}

func (a *app) runServe(cmd *cobra.Command, opts serveOptions) error {
	if opts.addr != "" {
		a.cfg.Server.Addr = opts.addr
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	m, err := manifest.Load(opts.file)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	srv := a.newServer(m, reg, opts.pretty)
	defer srv.close()

	for _, name := range opts.mount {
		if _, err := srv.components.mount(name); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\n  Shutting down...")
		case <-ctx.Done():
			return
		}
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		srv.hub.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	success(cmd, "Serving %s on http://%s", m.Source(), a.cfg.Server.Addr)
	a.logger.Info("live head listening",
		"addr", a.cfg.Server.Addr,
		"live", a.cfg.Server.LiveURL,
		"components", len(m.Components),
		"mounted", len(opts.mount),
	)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Newf(errors.CategoryCLI, "Cannot listen on %s", a.cfg.Server.Addr).Wrap(err)
	}
	return nil
}
