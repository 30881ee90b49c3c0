package main

import (
	"flag"

	"barberbook/internal/config"
	"barberbook/internal/database"
	"barberbook/internal/pkg/logger"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down (one step)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := database.Migrate(cfg.DatabaseURL, *direction); err != nil {
		log.WithError(err).WithField("direction", *direction).Fatal("migration failed")
	}
	log.WithField("direction", *direction).Info("migrations applied")
}
