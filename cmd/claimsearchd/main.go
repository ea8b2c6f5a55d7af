package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/toole-brendan/claimsearch/engine"
)

func claimSearchMain() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	setLogLevels(cfg.LogLevel)

	log.Infof("Starting claimsearchd, elasticsearch=%s index=%s", cfg.ElasticSearchURL, cfg.IndexPrefix)

	eng := engine.New(cfg.toEngineConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	defer eng.Stop()

	log.Info("claimsearchd started")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	log.Info("Shutdown signal received, stopping claimsearchd")
	return nil
}

func main() {
	if err := claimSearchMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
