package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-todo-keeper/internal/client"
	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/tui"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/joho/godotenv"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	globalArgs, name, cmdArgs := splitArgs(args)
	cmd, ok := commands[name]
	if !ok {
		printUsage()
		if name == "" || name == "help" {
			return 0
		}
		return 2
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, tui.RenderError(fmt.Sprintf("loading .env: %v", err)))
	}

	cfg, err := config.GetClientConfig(globalArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError(err.Error()))
		return 2
	}

	log := logger.NewClientLogger("todo-client", cfg.LogFile)
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		log.Err(err).Msg("init client app error")
		fmt.Fprintln(os.Stderr, tui.RenderError(err.Error()))
		return 1
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing client state")
		}
	}()

	env := &environment{
		app:       app,
		cfg:       cfg,
		buildInfo: models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		logger:    log,
	}

	if err = cmd.run(ctx, env, cmdArgs); err != nil {
		log.Debug().Err(err).Str("command", name).Msg("command failed")
		fmt.Fprintln(os.Stderr, tui.RenderError(err.Error()))
		return 1
	}
	return 0
}
