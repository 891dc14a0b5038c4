package db

import (
	"fmt"
	"go-content-api/config"
	"go-content-api/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations from the given directory.
// An already up-to-date schema is not an error.
func RunMigrations(migrationsPath string) error {
	cfg := config.AppConfig.Database

	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to initialize migrations")
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Log.WithError(err).Error("Failed to apply migrations")
		return err
	}

	logger.Log.Info("Database migrations applied successfully")
	return nil
}
