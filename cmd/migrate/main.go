// migrate aplica las migraciones SQL embebidas sobre la base configurada (DATABASE_URL o DB_*).
//
// Uso: go run ./cmd/migrate
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Error().Err(err).Strs("applied", applied).Msg("migración interrumpida")
		pool.Close()
		os.Exit(1)
	}
	if len(applied) == 0 {
		log.Info().Msg("la base ya está al día")
		return
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("aplicada")
	}
}
