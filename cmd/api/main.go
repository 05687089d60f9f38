package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-scheduler/internal/config"
	dbpkg "github.com/clinicdesk/clinic-scheduler/internal/db"
	"github.com/clinicdesk/clinic-scheduler/internal/routes"
	"github.com/clinicdesk/clinic-scheduler/pkg/logger"
)

func main() {

	// .env is optional; deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db := dbpkg.NewDB(cfg)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg)

	log.Info().Str("addr", cfg.Addr()).Msg("server starting")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
