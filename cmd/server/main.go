package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dgallion1/mdenrich/internal/api"
	"github.com/dgallion1/mdenrich/internal/config"
	"github.com/dgallion1/mdenrich/internal/enhance"
	"github.com/dgallion1/mdenrich/internal/images"
	"github.com/dgallion1/mdenrich/internal/logging"
	"github.com/dgallion1/mdenrich/internal/pipeline"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	tax, err := taxonomy.Resolve(cfg.TaxonomyPath, cfg.Locale)
	if err != nil {
		log.WithError(err).Fatal("failed to load taxonomy")
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.WithError(err).WithField("dir", cfg.CacheDir).Fatal("failed to create image cache")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize collaborators.
	fetcher := images.NewHTTPFetcher(cfg.FetcherConfig())
	cache := images.NewCache(cfg.CacheDir, fetcher, log)
	localizer := images.NewLocalizer(cache, cfg.ImageDir, cfg.FetchConcurrency, log)
	enhancer := enhance.New(tax)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, localizer, enhancer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, enhancer, cache, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{
		"port":   cfg.Port,
		"locale": tax.Locale,
		"cache":  cfg.CacheDir,
	}).Info("starting mdenrich")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("server error")
		os.Exit(1)
	}
}
