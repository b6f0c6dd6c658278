// Package cli — serve.go implements the "portscout serve" command.
//
// The serve command runs the HTTP API, exposing the same inventory, check,
// and random operations to other tools (dashboards, dev tooling, scripts)
// over a small request/response contract.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscout/internal/config"
	"github.com/mmr-tortoise/portscout/internal/docker"
	"github.com/mmr-tortoise/portscout/internal/port"
	"github.com/mmr-tortoise/portscout/internal/server"
)

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	// listen overrides the configured bind address when non-empty.
	listen string

	// configPath points at an optional YAML or JSONC config file.
	configPath string
}

// NewServeCommand creates the "serve" cobra command.
func NewServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the port inventory over HTTP",
		Long: `Run the portscout HTTP API.

Endpoints:
  GET /ports              full inventory
  GET /ports/:port/check  single-port availability
  GET /ports/random       a random free port
  GET /health             runtime connection liveness

Examples:
  portscout serve
  portscout serve --listen :8088
  portscout serve --config portscout.yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.listen, "listen", "",
		"Bind address (overrides the config file; default :7070)")
	cmd.Flags().StringVar(&flags.configPath, "config", "",
		"Path to a .yaml/.yml/.json/.jsonc config file")

	return cmd
}

// runServe loads configuration, connects to the runtime, and serves the API
// until the listener fails.
func runServe(ctx context.Context, flags *serveFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.listen != "" {
		cfg.Listen = flags.listen
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	// A dead daemon at startup is worth a warning, but not fatal: /health
	// keeps reporting the connection state and the daemon may come back.
	if err := cli.Ping(ctx); err != nil {
		log.Warn("container runtime not responding at startup", "error", err)
	}

	svc := port.NewService(cli)
	svc.SetRange(cfg.Random.RangeLow, cfg.Random.RangeHigh, cfg.Random.MaxAttempts)

	log.Info("starting portscout",
		"listen", cfg.Listen,
		"rangeLow", cfg.Random.RangeLow,
		"rangeHigh", cfg.Random.RangeHigh,
		"maxAttempts", cfg.Random.MaxAttempts,
	)

	return server.New(svc, cli, log).Run(cfg.Listen)
}
