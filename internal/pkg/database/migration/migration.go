package migration

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const pgDriverName = "postgres"

//go:embed sql/*.sql
var migrations embed.FS

// Migrate applies all pending up migrations. When folderPath is empty the migrations
// embedded in the binary are used.
func Migrate(dsn, folderPath string) error {
	db, err := sql.Open(pgDriverName, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	var m *migrate.Migrate
	if folderPath != "" {
		m, err = migrate.NewWithDatabaseInstance("file://"+folderPath, pgDriverName, driver)
	} else {
		var src source.Driver
		if src, err = iofs.New(migrations, "sql"); err != nil {
			return err
		}
		m, err = migrate.NewWithInstance("iofs", src, pgDriverName, driver)
	}
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, dirty, _ := m.Version()
	zap.L().Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
