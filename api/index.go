package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/app"
	"github.com/wadjakorntonsri/go-3dnav/pkg/config"
	"github.com/wadjakorntonsri/go-3dnav/pkg/logger"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.AppEnv)

	// STORAGE_MODE=auto detects VERCEL and serves from memory.
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Panic("failed to start", zap.Error(err))
	}
	mux = a.Handler()
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
