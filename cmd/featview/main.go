package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/TimelordUK/featview/internal/config"
	"github.com/TimelordUK/featview/internal/export"
	"github.com/TimelordUK/featview/internal/source"
	"github.com/TimelordUK/featview/internal/ui"
	"github.com/TimelordUK/featview/pkg/logutils"
)

var version = "dev"

type flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Hex        bool
	Highlight  string
	MatchCase  bool
	Filter     string
	Export     string
}

func main() {
	var (
		f         = &flags{}
		cfg       *config.Config
		logCloser func()
	)

	app := &cli.Command{
		Name:      "featview",
		Usage:     "View bulk_extractor feature files",
		UsageText: "featview [options] <feature file>",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal)",
				Sources:     cli.EnvVars("FEATVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, logs are discarded when unset",
				Sources:     cli.EnvVars("FEATVIEW_LOG_FILE"),
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Sources:     cli.EnvVars("FEATVIEW_CONFIG"),
				Value:       config.GetConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.BoolFlag{
				Name:        "hex",
				Aliases:     []string{"x"},
				Usage:       "show path offsets in hexadecimal",
				Destination: &f.Hex,
			},
			&cli.StringFlag{
				Name:        "highlight",
				Usage:       "'|' separated highlight patterns, escape codes allowed",
				Sources:     cli.EnvVars("FEATVIEW_HIGHLIGHT"),
				Destination: &f.Highlight,
			},
			&cli.BoolFlag{
				Name:        "match-case",
				Usage:       "match highlight and filter text case-sensitively",
				Destination: &f.MatchCase,
			},
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "index only lines whose feature contains this text",
				Destination: &f.Filter,
			},
			&cli.StringFlag{
				Name:        "export",
				Aliases:     []string{"o"},
				Usage:       "write the indexed lines to this file and exit",
				Destination: &f.Export,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(f.LogLevel, f.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err = config.LoadFile(f.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			applyFlags(cfg, f, c.IsSet)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init-config",
				Usage: "write the default config to the config path",
				Action: func(ctx context.Context, c *cli.Command) error {
					return initConfig(f.ConfigPath)
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return errors.New("expected one feature file, run 'featview --help' for usage")
			}
			path := c.Args().First()

			if f.Export != "" {
				return runExport(ctx, cfg, path, f)
			}
			return runViewer(cfg, path, f.Filter)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags copies explicitly set flags over the loaded config
func applyFlags(cfg *config.Config, f *flags, isSet func(name string) bool) {
	if isSet("hex") {
		cfg.Display.UseHexPaths = f.Hex
	}
	if isSet("highlight") {
		cfg.Highlight.Patterns = f.Highlight
	}
	if isSet("match-case") {
		cfg.Highlight.MatchCase = f.MatchCase
	}
}

func initConfig(path string) error {
	if path == "" {
		return errors.New("no config path, set --config")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.SaveFile(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Println(path)
	return nil
}

func runViewer(cfg *config.Config, path, filter string) error {
	model := ui.NewModel(ui.ModelOptions{
		Path:   path,
		Config: cfg,
		Filter: filter,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runExport(ctx context.Context, cfg *config.Config, path string, f *flags) error {
	src, err := source.NewFeatureSource(ctx, path, source.ScanOptions{
		Filter:    []byte(f.Filter),
		MatchCase: cfg.Highlight.MatchCase,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := export.NewExporter().ExportRange(src, path, export.Range{
		StartLine: 0,
		EndLine:   src.LineCount(),
		Filter:    f.Filter,
		UseHex:    cfg.Display.UseHexPaths,
		OutPath:   f.Export,
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	log.Info().Str("output", info.OutputPath).Int("lines", info.EndLine-info.StartLine).Msg("exported feature file")
	fmt.Println(info.OutputPath)
	return nil
}
