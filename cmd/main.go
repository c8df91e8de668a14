package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"

	"rubricgen/pkg/config"
	"rubricgen/pkg/dataset"
	"rubricgen/pkg/inference"
	"rubricgen/pkg/prompt"
	"rubricgen/pkg/runner"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}
	if cfg.APIKey == "" {
		log.Warn("no API key set for provider", "provider", cfg.Provider)
	}

	inf, err := newInferencer(cfg)
	if err != nil {
		log.Fatal("provider setup failed", "provider", cfg.Provider, "error", err)
	}
	retrier := inference.NewRetrier(inf, inference.RetryConfig{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.Delay,
	})

	template, err := prompt.LoadTemplate(cfg.InputDir, cfg.Language)
	if err != nil {
		log.Fatal("template load failed", "error", err)
	}

	records, err := dataset.Load(cfg.DatasetPath())
	if err != nil {
		log.Fatal("dataset load failed", "error", err)
	}
	if len(records) == 0 {
		log.Fatal("dataset contains no usable records", "path", cfg.DatasetPath())
	}

	stats := runner.New(retrier, cfg).Run(ctx, template, records)
	if stats.Succeeded == 0 && stats.Failed > 0 {
		os.Exit(1)
	}
}

func newInferencer(cfg config.Config) (inference.Inferencer, error) {
	switch cfg.Provider {
	case "gemini":
		gemini, err := inference.NewGeminiInferencer(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		gemini.SetMaxTokens(cfg.MaxTokens)
		return gemini, nil
	case "qiniu":
		qiniu := inference.NewQiniuInferencer(cfg.APIKey, cfg.Model)
		qiniu.SetMaxTokens(cfg.MaxTokens)
		if cfg.BaseURL != "" {
			qiniu.ChangeBaseURL(cfg.BaseURL)
		}
		return qiniu, nil
	default:
		openAI := inference.NewOpenAIInferencer(cfg.APIKey, cfg.Model)
		openAI.SetMaxTokens(cfg.MaxTokens)
		if cfg.BaseURL != "" {
			openAI.ChangeBaseURL(cfg.BaseURL)
		}
		return openAI, nil
	}
}
