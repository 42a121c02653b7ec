package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modescope/modescope/analysis"
	"github.com/modescope/modescope/logging"
	"github.com/modescope/modescope/server"
)

func main() {
	var (
		addr          = flag.String("addr", ":8000", "listen address")
		chunkSeconds  = flag.Int("chunk-seconds", 0, "streaming chunk size in seconds (0 = default)")
		minSamples    = flag.Int("min-samples", 0, "minimum extractor block size in samples (0 = default)")
		streamSeconds = flag.Float64("stream-seconds", 0, "segment duration above which local analysis streams (0 = default)")
		debug         = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		logging.SetLevel(logging.DebugLevel)
	}
	log := logging.WithFields(logging.Fields{"component": "modescope"})

	cfg := analysis.DefaultConfig()
	if *chunkSeconds > 0 {
		cfg.ChunkSeconds = *chunkSeconds
	}
	if *minSamples > 0 {
		cfg.MinSamples = *minSamples
	}
	if *streamSeconds > 0 {
		cfg.StreamSeconds = *streamSeconds
	}

	srv := server.New(cfg, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(*addr)
	}()
	log.Info("startup complete, waiting for requests", logging.Fields{"addr": *addr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	case <-ctx.Done():
		log.Info("shutdown initiated, closing gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "graceful shutdown failed")
		}
	}
}
