package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the "pgx5" migrate driver
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationStatus reports whether one migration version has been applied.
type MigrationStatus struct {
	Version uint
	Name    string
	Applied bool
	Dirty   bool
}

// Migrator applies the NNN_name.up.sql files of an fs.FS with golang-migrate.
// Applied versions are tracked in the schema_migrations table.
type Migrator struct {
	m   *migrate.Migrate
	src source.Driver
}

// NewMigrator opens its own connection to dsn. Close releases it.
func NewMigrator(dsn string, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory %s: %w", dir, err)
	}
	url, err := driverURL(dsn)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return &Migrator{m: m, src: src}, nil
}

// driverURL points a postgres URL at the pgx/v5 migrate driver.
func driverURL(dsn string) (string, error) {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest, nil
		}
	}
	return "", errors.New("migrations need a postgres:// URL")
}

// Up applies every pending migration. It reports whether anything ran and
// the schema version afterwards.
func (m *Migrator) Up() (changed bool, version uint, err error) {
	switch err := m.m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return false, 0, fmt.Errorf("apply migrations: %w", err)
	default:
		changed = true
	}
	version, _, err = m.m.Version()
	if err != nil {
		return changed, 0, fmt.Errorf("read schema version: %w", err)
	}
	return changed, version, nil
}

// Status lists every known migration against the recorded schema version.
func (m *Migrator) Status() ([]MigrationStatus, error) {
	all, err := listMigrations(m.src)
	if err != nil {
		return nil, err
	}
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return all, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	return markApplied(all, version, dirty), nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// listMigrations walks the source in version order.
func listMigrations(src source.Driver) ([]MigrationStatus, error) {
	var out []MigrationStatus
	v, err := src.First()
	for err == nil {
		r, name, readErr := src.ReadUp(v)
		if readErr != nil {
			return nil, fmt.Errorf("read migration %d: %w", v, readErr)
		}
		_ = r.Close()
		out = append(out, MigrationStatus{Version: v, Name: name})
		v, err = src.Next(v)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	return out, nil
}

// markApplied flags every version up to current. A dirty current version
// failed part way and is not counted as applied.
func markApplied(all []MigrationStatus, current uint, dirty bool) []MigrationStatus {
	out := make([]MigrationStatus, len(all))
	for i, st := range all {
		switch {
		case st.Version < current:
			st.Applied = true
		case st.Version == current:
			st.Applied = !dirty
			st.Dirty = dirty
		}
		out[i] = st
	}
	return out
}
