package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

func (db *DB) prepareMigrations() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(db.logger)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return nil
}

// Migrate applies every pending migration
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.prepareMigrations(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	db.logger.Info("マイグレーションを適用しました")
	return nil
}

// Rollback reverts the most recent migration
func (db *DB) Rollback(ctx context.Context) error {
	if err := db.prepareMigrations(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db.DB, migrationsDir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	db.logger.Info("マイグレーションをロールバックしました")
	return nil
}

// MigrationStatus logs the applied state of every migration
func (db *DB) MigrationStatus(ctx context.Context) error {
	if err := db.prepareMigrations(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db.DB, migrationsDir)
}
