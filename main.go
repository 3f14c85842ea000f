package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sadopc/workhours/internal/cli"
	"github.com/sadopc/workhours/internal/config"
	"github.com/sadopc/workhours/internal/logging"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/tui"
	"github.com/sadopc/workhours/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		if cli.IsCancelled(err) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorText(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	ws := workspace.New(s, logger)

	app := &cli.App{
		Workspace: ws,
		Prefs:     s,
		ExportDir: cfg.ExportDir,
		Logger:    logger,
	}
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
	}
	app.RunTUI = func(ctx context.Context) error {
		prefs, err := s.LoadPreferences(ctx)
		if err != nil {
			logger.Warn("loading preferences", "error", err)
			prefs = store.DefaultPreferences()
		}
		return tui.Run(ctx, tui.Options{
			Workspace:   ws,
			Prefs:       s,
			Preferences: prefs,
			ExportDir:   cfg.ExportDir,
		})
	}

	logger.Info("starting", "db", cfg.DBPath)
	ctx := logging.ContextWithLogger(context.Background(), logger)
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// errorText prefers the short user-facing message for errors the workspace
// knows about.
func errorText(err error) string {
	if workspace.ErrorKind(err) == "unexpected" {
		return err.Error()
	}
	return workspace.Message(err)
}
