package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/serisow/pdfclerk/annotation"
	"github.com/serisow/pdfclerk/config"
	"github.com/serisow/pdfclerk/logging"
	"github.com/serisow/pdfclerk/pipeline"
	"github.com/serisow/pdfclerk/pipeline/llm_service"
	"github.com/serisow/pdfclerk/plugin_registry"
	"github.com/serisow/pdfclerk/server"
	"github.com/serisow/pdfclerk/watcher"
	"github.com/urfave/negroni"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Resolve(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	handler, err := logging.NewDailyFileHandler(cfg.LogDir, &slog.HandlerOptions{Level: slog.LevelInfo})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to initialize logging:", err)
		os.Exit(1)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()

	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterLLMService("gemini", llm_service.NewGeminiService(logger, cfg.RequestTimeout))
	registry.RegisterLLMService("openai", llm_service.NewOpenAIService(zapLogger, cfg.RequestTimeout))
	registry.RegisterLLMService("anthropic", llm_service.NewAnthropicService(zapLogger, cfg.RequestTimeout))

	pipeline.StartOutcomeStoreCleanup(24*time.Hour, time.Hour)
	defer pipeline.StopOutcomeStoreCleanup()

	extractor := annotation.NewDocumentExtractor(logger)
	processor := watcher.NewPipelineProcessor(cfg, registry, extractor)
	w := watcher.New(cfg, processor, logger)

	watcherErr := make(chan error, 1)
	go func() {
		watcherErr <- w.Start()
	}()

	r := server.SetupRoutes()
	go server.Serve(cfg.HTTPPort, setupNegroni(r), logger)

	if err := <-watcherErr; err != nil {
		logger.Error("Fatal error, shutting down", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}
