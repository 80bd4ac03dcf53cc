package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/mindsync/internal"
	"github.com/starford/mindsync/internal/models"
	pkgconfig "github.com/starford/mindsync/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithOnce(cmd.Bool("once")),
		internal.WithWatch(cmd.Bool("watch")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func convertAction(dir models.Direction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return fmt.Errorf("%s: expected IN and OUT arguments", cmd.Name)
		}
		cfg := internal.NewDefaultConfig()
		if _, err := pkgconfig.LoadOrDefault(cmd.String("config"), cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		return internal.Convert(dir, cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("name"),
			internal.WithConfig(cfg))
	}
}

func history(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rows, err := internal.History(cmd.String("pair"), int(cmd.Int("limit")), internal.WithConfig(cfg))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func main() {
	cmd := &cli.Command{
		Name:    "mindsync",
		Usage:   "Keep tab-indented outlines and Minder mind maps in sync",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single sweep and exit",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Sweep again whenever a tracked file changes",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "Convert a single file without touching pairs, backups or the checkpoint",
				Commands: []*cli.Command{
					{
						Name:      "to-graph",
						Usage:     "Convert an outline into a Minder document",
						ArgsUsage: "IN OUT",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "name",
								Usage: "Root label (defaults to the base name of IN)",
							},
						},
						Action: convertAction(models.DirectionToGraph),
					},
					{
						Name:      "to-text",
						Usage:     "Convert a Minder document into an outline",
						ArgsUsage: "IN OUT",
						Action:    convertAction(models.DirectionToText),
					},
				},
			},
			{
				Name:  "history",
				Usage: "Print journaled conversions as JSON, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "pair",
						Usage: "Only show this pair",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows",
						Value: 20,
					},
				},
				Action: history,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools on stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
