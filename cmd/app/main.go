package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/adrgraph/internal"
	"github.com/starford/adrgraph/internal/apperr"
	pkgconfig "github.com/starford/adrgraph/pkg/config"
)

// Process exit codes.
const (
	exitPass  = 0
	exitFail  = 1
	exitFatal = 2
)

var version = "dev"

type runFunc func(ctx context.Context, opts ...internal.Option) error

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}

	if cmd.IsSet("root") {
		cfg.Corpus.Root = cmd.String("root")
	}
	if cmd.IsSet("format") {
		cfg.Report.Format = cmd.String("format")
	}
	if cmd.Bool("no-color") {
		cfg.Report.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func action(run runFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitPass
	case errors.Is(err, apperr.ErrVerdictFail):
		return exitFail
	default:
		return exitFatal
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "adrgraph",
		Usage:   "Validate relationships between Architecture Decision Records",
		Version: version,
		Action:  action(internal.Validate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "ADR corpus root directory",
				Sources: cli.EnvVars("ADR_ROOT"),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format: text or json",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored text output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate the corpus and print the report (default)",
				Action: action(internal.Validate),
			},
			{
				Name:   "map",
				Usage:  "Write the Markdown relationship map",
				Action: action(internal.Map),
			},
			{
				Name:   "export",
				Usage:  "Export the graph and findings to SQLite",
				Action: action(internal.Export),
			},
			{
				Name:   "watch",
				Usage:  "Re-validate whenever the corpus changes",
				Action: action(internal.Watch),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live report events",
				Action: action(internal.Serve),
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: action(internal.ServeMCP),
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	code := exitCode(err)
	if code == exitFatal {
		slog.Error("application error", slog.String("error", err.Error()))
	}
	os.Exit(code)
}
