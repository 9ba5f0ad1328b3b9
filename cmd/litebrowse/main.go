package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/joacominatel/litebrowse/internal/app"
	"github.com/joacominatel/litebrowse/internal/config"
	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/database/sqlite"
	"github.com/joacominatel/litebrowse/internal/logger"
	"github.com/joacominatel/litebrowse/internal/printer"
	"github.com/joacominatel/litebrowse/internal/session"
	"github.com/joacominatel/litebrowse/internal/tui"
	"github.com/joacominatel/litebrowse/internal/tui/theme"
)

type options struct {
	configPath string
	table      string
	list       bool
	path       string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "litebrowse: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("litebrowse", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: litebrowse [flags] [database.db]\n\nFlags:\n")
		flags.PrintDefaults()
	}

	var opts options
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.litebrowse/config.yaml)")
	flags.StringVar(&opts.table, "table", "", "print the rows of `TABLE` and exit")
	flags.BoolVar(&opts.list, "list", false, "print the table names and exit")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-file", "", "append logs to this file")
	flags.Duration("refresh", 0, "table list refresh interval")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("expected at most one database file, got %d", flags.NArg())
	}
	opts.path = flags.Arg(0)

	loader, err := config.NewLoader(opts.configPath)
	if err != nil {
		return &app.ErrConfig{Cause: err}
	}
	if err := loader.BindFlags(flags); err != nil {
		return &app.ErrConfig{Cause: err}
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = &config.Config{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.list || opts.table != "" {
		log := logger.New(&logger.Config{
			Level:  cfg.Preferences.LogLevel,
			Format: "console",
			Output: os.Stderr,
		})
		return runHeadless(ctx, opts, cfg, log)
	}

	out := io.Discard
	if cfg.Preferences.LogFile != "" {
		f, err := logger.OpenFile(cfg.Preferences.LogFile)
		if err != nil {
			return &app.ErrConfig{Cause: err}
		}
		defer f.Close()
		out = f
	}
	log := logger.New(&logger.Config{Level: cfg.Preferences.LogLevel, Format: "json", Output: out})

	return runTUI(ctx, opts, cfg, loader, log)
}

func runHeadless(ctx context.Context, opts options, cfg *config.Config, log zerolog.Logger) error {
	if opts.path == "" {
		return &app.ErrConnection{Cause: errors.New("a database file is required with --list or --table")}
	}

	out := printer.New(os.Stdout, cfg.Preferences.MaxCellWidth)
	ctrl := session.New(app.NewService(sqlite.New()), out, log)
	defer ctrl.Close()

	if err := ctrl.Start(ctx, opts.path); err != nil {
		return err
	}

	if opts.list {
		return out.Tables(ctrl.Tree())
	}

	node := ctrl.Tree().Find(opts.table)
	if node == nil {
		return &app.ErrSchema{Table: opts.table, Cause: database.ErrNoSuchTable}
	}

	result := ctrl.Dispatch(ctx, session.NodeActivated{Node: node})
	if result.DisplayErr != nil {
		return result.DisplayErr
	}
	return result.Err
}

func runTUI(ctx context.Context, opts options, cfg *config.Config, loader *config.Loader, log zerolog.Logger) error {
	theme.Apply(cfg.Preferences.Theme)

	ctrl := session.New(app.NewService(sqlite.New()), nil, log)
	defer ctrl.Close()

	model := tui.NewModel(tui.Options{
		Controller: ctrl,
		Config:     cfg,
		Save: func(c *config.Config) error {
			return loader.SaveRecent(c.Recent)
		},
		Path:            opts.path,
		RefreshInterval: cfg.Preferences.RefreshInterval,
		MaxCellWidth:    cfg.Preferences.MaxCellWidth,
		Log:             log,
		Context:         ctx,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
