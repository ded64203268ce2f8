package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/head/internal/config"
	"github.com/vango-dev/head/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the state shared by every command.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vango-head",
		Short: "Render and serve managed document heads",
		Long: `vango-head manages the <head> of server-rendered pages.

Components declare title, meta, link, style and script elements.
Identical declarations are shared, and an element stays in the head
until the last component declaring it unmounts.

  • render prints or stores the head of a manifest
  • serve keeps a live head in sync over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to vango-head.json (default ./vango-head.json when present)")

	rootCmd.AddCommand(
		renderCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// load resolves configuration and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	if path := cfg.Path(); path != "" {
		a.logger.Debug("config loaded", "path", path)
	}
	return nil
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
