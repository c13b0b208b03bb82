package main

import (
	"context"
	"time"

	"github.com/tu-usuario/fieldservice-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/fieldservice-pro/pkg/config"
	"github.com/tu-usuario/fieldservice-pro/pkg/logger"
)

// Aplica el esquema del núcleo sobre la base configurada.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración fallida")
	}
	log.Info().Str("db", cfg.DB.DBName).Msg("esquema aplicado")
}
