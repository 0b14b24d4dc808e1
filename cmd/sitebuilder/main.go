package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/linkverify"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
	"git.home.luguber.info/inful/sitebuilder/internal/translate"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"site.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Refresh bool `help:"Re-translate even when targets are newer than their sources"`
	} `cmd:"" help:"Build the site: translate, render, generate sitemap, validate links"`

	Translate struct {
		Refresh bool `help:"Re-translate even when targets are newer than their sources"`
	} `cmd:"" help:"Run only the translation pass, writing translated source documents"`

	Preview struct {
		Port int `short:"p" help:"HTTP port" default:"8080"`
	} `cmd:"" help:"Serve the site locally and rebuild on content changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// .env is optional; the translation API key usually lives there.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var translator translate.Client
	if key := cfg.Translation.APIKey(); key != "" {
		translator = translate.NewDeepLClient(key)
	}

	var publisher *linkverify.Publisher
	if cfg.Verify.NATSURL != "" {
		publisher, err = linkverify.NewPublisher(cfg.Verify.NATSURL, cfg.Verify.Subject)
		if err != nil {
			slog.Error("Failed to connect broken-link publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
	}

	switch ctx.Command() {
	case "build":
		builder := build.New(cfg, translator, metrics.Noop{}, publisher)
		if err := builder.Run(context.Background(), CLI.Build.Refresh); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "translate":
		orchestrator := translate.NewOrchestrator(cfg, translator)
		n, err := orchestrator.Run(context.Background(), CLI.Translate.Refresh)
		if err != nil {
			slog.Error("Translation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Translation finished", "documents", n)
	case "preview":
		recorder := metrics.NewPrometheusRecorder()
		builder := build.New(cfg, translator, recorder, publisher)
		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := preview.Serve(runCtx, cfg, builder, recorder, CLI.Preview.Port); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}
	}
}
