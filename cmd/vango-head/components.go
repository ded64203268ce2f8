package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/internal/manifest"
	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/live"
	"github.com/vango-dev/head/pkg/vango"
)

// ComponentsURL is the route prefix for mounting manifest components.
const ComponentsURL = "/_head/components"

// components mounts and unmounts manifest components in a live document
// by name. Every change is flushed to connected clients.
type components struct {
	manifest *manifest.Manifest
	doc      *live.Document
	out      live.Broadcaster
	logger   *slog.Logger

	mu      sync.Mutex
	mounted map[string]*vango.Instance
}

func newComponents(m *manifest.Manifest, doc *live.Document, out live.Broadcaster, logger *slog.Logger) *components {
	return &components{
		manifest: m,
		doc:      doc,
		out:      out,
		logger:   logger,
		mounted:  make(map[string]*vango.Instance),
	}
}

// componentStatus is the JSON form of a manifest component.
type componentStatus struct {
	Name    string `json:"name"`
	Mounted bool   `json:"mounted"`
	Entries int    `json:"entries"`
}

// mount mounts the named component. Mounting twice is a no-op.
func (c *components) mount(name string) (bool, error) {
	comp, ok := c.manifest.Component(name)
	if !ok {
		return false, errors.New("E204").WithDetail(name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mounted[name]; ok {
		return false, nil
	}
	c.mounted[name] = c.doc.Mount(head.Helmet(comp.Children()...))
	return true, nil
}

// unmount disposes the named component and reports whether it was mounted.
func (c *components) unmount(name string) bool {
	c.mu.Lock()
	inst, ok := c.mounted[name]
	delete(c.mounted, name)
	c.mu.Unlock()

	if ok {
		c.doc.Unmount(inst)
	}
	return ok
}

func (c *components) list() []componentStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]componentStatus, 0, len(c.manifest.Components))
	for _, comp := range c.manifest.Components {
		_, mounted := c.mounted[comp.Name]
		out = append(out, componentStatus{Name: comp.Name, Mounted: mounted, Entries: len(comp.Head)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// routes registers the component endpoints on r.
func (c *components) routes(r chi.Router) {
	r.Get(ComponentsURL, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, c.list())
	})

	r.Post(ComponentsURL+"/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		changed, err := c.mount(name)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		c.flush(w, req, name, changed, "mounted")
	})

	r.Delete(ComponentsURL+"/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if !c.unmount(name) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "component not mounted: " + name})
			return
		}
		c.flush(w, req, name, true, "unmounted")
	})
}

func (c *components) flush(w http.ResponseWriter, req *http.Request, name string, changed bool, action string) {
	n, err := c.doc.Flush(req.Context(), c.out)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if changed {
		c.logger.Info("component "+action, "name", name, "patches", n)
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "patches": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
