package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"

	"herbula/api/internal/app"
	"herbula/api/internal/config"
	"herbula/api/internal/handle"
	"herbula/api/internal/httpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("init")
	}
	defer a.Close()

	mux := http.NewServeMux()
	httpserver.Register(mux, handle.New(a.Service), a.Ping())

	log.WithFields(log.Fields{
		"engine": cfg.GeminiEngine,
		"model":  cfg.GeminiModel,
	}).Info("herbula relay starting")
	if err := httpserver.Serve(ctx, ":"+cfg.Port, mux); err != nil {
		log.WithError(err).Fatal("http server")
	}
}
