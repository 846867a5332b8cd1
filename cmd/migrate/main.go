// Command migrate aplica el esquema de migrations/ sobre la base configurada.
//
// Uso: migrate [up|down|version]  (por defecto up)
package main

import (
	"errors"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/ldtnet/pdv-api/migrations"
	"github.com/ldtnet/pdv-api/pkg/config"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal().Err(err).Msg("leer migraciones embebidas")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(cfg.DB.ConnectionString()))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer m.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatal().Err(verr).Msg("leer versión")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
		return
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido (up|down|version)")
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}
	log.Info().Str("cmd", cmd).Msg("migración aplicada")
}

// pgx5URL el driver pgx/v5 de migrate se registra con el esquema pgx5://.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
