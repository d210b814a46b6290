package main

import (
	"context"
	"net/http"

	"github.com/rs/cors"

	"folio/api/router"
	"folio/config"
	"folio/db"
	"folio/logger"
)

// @title           Folio API
// @version         1.0
// @description     Portfolio blog API: public reader and admin CMS
// @BasePath        /
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("mongo connect: %v", err)
		return
	}
	defer db.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Log.Errorf("ensure indexes: %v", err)
		return
	}

	r := router.New(cfg)

	// Credentialed CORS so the browser frontend can carry the session
	// cookie across origins.
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	logger.Log.Infof("listening on %s", addr)
	if err := http.ListenAndServe(addr, c.Handler(r)); err != nil && err != http.ErrServerClosed {
		logger.Log.Errorf("http server: %v", err)
	}
}
