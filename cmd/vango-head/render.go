package main

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/internal/manifest"
	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/live"
	"github.com/vango-dev/head/pkg/render"
	"github.com/vango-dev/head/pkg/snapshot"
)

type renderOptions struct {
	file       string
	components []string
	out        string
	pretty     bool
	page       bool
}

func renderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the head of a manifest",
		Long: `Mount the components of a head manifest and render the resulting
head. Shared declarations appear once.

The output is written to stdout, or to the configured snapshot store
when --out names a key.

Examples:
  vango-head render -f head.yaml
  vango-head render -f head.yaml --component layout --component post
  vango-head render -f head.yaml --page --out pages/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "head.yaml", "Head manifest to render")
	cmd.Flags().StringArrayVar(&opts.components, "component", nil, "Component to mount (repeatable, default all)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Snapshot key to write instead of stdout")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Put every head node on its own line")
	cmd.Flags().BoolVar(&opts.page, "page", false, "Render a complete HTML page")

	return cmd
}

func (a *app) runRender(cmd *cobra.Command, opts renderOptions) error {
	m, err := manifest.Load(opts.file)
	if err != nil {
		return err
	}

	doc := live.NewDocument(live.WithLogger(a.logger))
	defer doc.Close()

	names := opts.components
	if len(names) == 0 {
		for _, c := range m.Components {
			names = append(names, c.Name)
		}
	}
	for _, name := range names {
		c, ok := m.Component(name)
		if !ok {
			return errors.New("E204").WithDetail(name)
		}
		doc.Mount(head.Helmet(c.Children()...))
	}

	renderer := render.NewRenderer(render.RendererConfig{
		Pretty:      opts.pretty || a.cfg.Render.Pretty,
		DefaultMeta: a.cfg.Render.DefaultMeta,
	})

	var buf bytes.Buffer
	if opts.page {
		err = renderer.RenderPage(&buf, render.PageData{
			Head: doc.Nodes(),
			Lang: a.cfg.Render.Lang,
		})
	} else {
		err = renderer.RenderHead(&buf, doc.Nodes())
	}
	if err != nil {
		return err
	}
	a.logger.Debug("rendered head", "components", len(names), "nodes", len(doc.Nodes()))

	if opts.out == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return a.writeSnapshot(cmd, opts.out, buf.Bytes())
}

func (a *app) writeSnapshot(cmd *cobra.Command, key string, body []byte) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := snapshot.Open(ctx, a.cfg.Snapshot)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, key, body); err != nil {
		return err
	}
	success(cmd, "Wrote %s (%d bytes, %s)", key, len(body), a.cfg.Snapshot.Backend())
	return nil
}
