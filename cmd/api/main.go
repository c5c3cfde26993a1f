package main

import (
	"context"
	"os"

	"github.com/yigit/alumniconnect/internal/pkg/logger"
	"github.com/yigit/alumniconnect/internal/server"
)

// @title AlumniConnect API
// @version 1.0
// @description API for the AlumniConnect alumni and student networking platform

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
