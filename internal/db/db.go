package db

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spurningar/internal/models"
)

// Open connects to PostgreSQL and runs the schema migration. The handle is
// returned to the caller and injected into the services; there is no
// package-global connection.
func Open(dsn string) (*gorm.DB, error) {
	g, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Database connection established")

	if err := Migrate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Migrate creates or updates the schema for every model. Exported so tests
// can run it against their own database.
func Migrate(g *gorm.DB) error {
	err := g.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.VoteBudget{},
		&models.PublishLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info("Database migration completed")
	return nil
}
