package sqlite

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/console/internal/console/tokens/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations creates or upgrades the storage table that holds the
// remembered bearer token. An up-to-date file is left alone.
func (s *Store) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return fmt.Errorf("token schema source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "tokens", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate token schema: %w", err)
	}
	return nil
}
