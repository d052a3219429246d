package main

import (
	"log"

	"github.com/nebula-db/nebula-backend/config"
	"github.com/nebula-db/nebula-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "nebula-backend",
		Version:     cfg.App.Version,
		Config:      cfg,
	})

	log.Printf("nebula-backend listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
