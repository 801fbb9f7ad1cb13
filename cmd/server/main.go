package main

import (
	"log"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/server"
)

// @title           Taskboard API
// @version         1.0
// @description     Boards, notes and members for small teams.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatalf("server initialization failed: %v", err)
	}

	s.Run()
}
