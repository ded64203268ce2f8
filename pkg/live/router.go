package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/render"
)

// Default routes.
const (
	DefaultLiveURL   = "/_head/ws"
	DefaultClientURL = "/_head/client.js"
	EntriesURL       = "/_head"
	MetricsURL       = "/metrics"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// LiveURL is the websocket path. Defaults to DefaultLiveURL.
	LiveURL string

	// Render configures the page renderer.
	Render render.RendererConfig

	// Lang is the html lang attribute of the page.
	Lang string

	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger logs requests. Defaults to slog.Default().
	Logger *slog.Logger
}

// Entry is the JSON form of a managed head node.
type Entry struct {
	ID      string            `json:"id"`
	Tag     string            `json:"tag"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Content *string           `json:"content,omitempty"`
	Owners  []uint64          `json:"owners"`
}

// NewRouter returns a router serving the page, the live websocket, the
// client script, a JSON listing of entries and metrics.
func NewRouter(doc *Document, hub *Hub, cfg RouterConfig) chi.Router {
	if cfg.LiveURL == "" {
		cfg.LiveURL = DefaultLiveURL
	}
	if cfg.Render.ClientScript == "" {
		cfg.Render.ClientScript = DefaultClientURL
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	renderer := render.NewRenderer(cfg.Render)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := renderer.RenderPage(w, render.PageData{
			Head:    doc.Nodes(),
			Body:    doc.Body(),
			Lang:    cfg.Lang,
			LiveURL: cfg.LiveURL,
		})
		if err != nil {
			cfg.Logger.Error("head: page render failed", "error", err)
		}
	})

	r.Get(cfg.LiveURL, hub.HandleWebSocket)

	r.Get(cfg.Render.ClientScript, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(ClientScript))
	})

	r.Get(EntriesURL, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries(doc.Registry())); err != nil {
			cfg.Logger.Error("head: encode entries failed", "error", err)
		}
	})

	r.Method(http.MethodGet, MetricsURL, promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	return r
}

func entries(reg *head.Registry) []Entry {
	nodes := reg.Entries()
	out := make([]Entry, 0, len(nodes))
	for _, n := range nodes {
		e := Entry{
			ID:     n.ID,
			Tag:    n.Tag,
			Owners: reg.Owners(n.Declaration),
		}
		if len(n.Attrs) > 0 {
			e.Attrs = make(map[string]string, len(n.Attrs))
			for _, a := range n.Attrs {
				e.Attrs[a.Name] = a.Value
			}
		}
		if n.HasContent {
			content := n.Content
			e.Content = &content
		}
		out = append(out, e)
	}
	return out
}

// requestLogger logs each request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			logger.Debug("head: request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(req.Context()),
			)
		})
	}
}
