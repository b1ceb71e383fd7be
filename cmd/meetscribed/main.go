package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/scribelabs/meetscribe/internal/audio"
	"github.com/scribelabs/meetscribe/internal/config"
	"github.com/scribelabs/meetscribe/internal/runtime"
	"github.com/scribelabs/meetscribe/internal/session"
	"github.com/scribelabs/meetscribe/internal/summary"
	"github.com/scribelabs/meetscribe/internal/transcribe"
	"github.com/scribelabs/meetscribe/internal/ui"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "meetscribe.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	// Logs go to stderr so the interactive console owns stdout.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Telemetry.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	host, err := audio.NewHost(cfg.Audio.SampleRate, audio.FrameSamples(cfg.Audio.SampleRate, cfg.Audio.FrameDurationMS))
	if err != nil {
		logger.Error("failed to open audio host", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = host.Close() }()

	streamer, err := transcribe.NewAWSStreamer(ctx, cfg.TranscribeRegion)
	if err != nil {
		logger.Error("failed to set up transcription client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var summarySvc *summary.Service
	if cfg.MakeSummaryEnabled {
		summarizer, err := summary.NewBedrockSummarizer(ctx, cfg.BedrockRegion, cfg.LLMModelName, cfg.Summary.MaxTokens)
		if err != nil {
			logger.Error("failed to set up summarizer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		summarySvc = summary.NewService(summarizer, cfg.Summary.SystemPromptPath, logger)
	}

	console := ui.NewConsole(os.Stdin, os.Stdout, logger)
	manager := session.NewManager(ctx, cfg, host, streamer, summarySvc, console, logger)
	console.Attach(manager)

	rt := runtime.New(cfg, logger, manager, console)
	if err := rt.Start(ctx); err != nil {
		logger.Error("runtime exited with error", slog.String("error", err.Error()))
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
