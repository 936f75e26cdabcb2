package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"b2y-backend/pkg/config"
)

// NewPostgresConnection opens the relational database used by the Postgres
// credential store backend.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
}
