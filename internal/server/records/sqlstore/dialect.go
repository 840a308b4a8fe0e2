package sqlstore

import (
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/pulsecheck/internal/server/records/sqlstore/migrations"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	Name         string
	DriverName   string
	GooseDialect string
	Migrations   fs.FS
	MigrationDir string
	// SingleConn limits the pool to one connection (SQLite writers).
	SingleConn  bool
	placeholder func(n int) string
}

var (
	Postgres = Dialect{
		Name:         "postgres",
		DriverName:   "pgx",
		GooseDialect: "pgx",
		Migrations:   migrations.Postgres,
		MigrationDir: "postgres",
		placeholder:  func(n int) string { return fmt.Sprintf("$%d", n) },
	}

	SQLite = Dialect{
		Name:         "sqlite",
		DriverName:   "sqlite",
		GooseDialect: "sqlite3",
		Migrations:   migrations.SQLite,
		MigrationDir: "sqlite",
		SingleConn:   true,
		placeholder:  func(int) string { return "?" },
	}
)

type queries struct {
	create string
	read   string
	update string
	delete string
}

func (d Dialect) queries() queries {
	p := d.placeholder
	return queries{
		create: fmt.Sprintf(
			`INSERT INTO records (collection, id, data) VALUES (%s, %s, %s)
			 ON CONFLICT (collection, id) DO NOTHING`, p(1), p(2), p(3)),
		read: fmt.Sprintf(
			`SELECT data FROM records WHERE collection = %s AND id = %s`, p(1), p(2)),
		update: fmt.Sprintf(
			`UPDATE records SET data = %s, updated_at = CURRENT_TIMESTAMP
			 WHERE collection = %s AND id = %s`, p(1), p(2), p(3)),
		delete: fmt.Sprintf(
			`DELETE FROM records WHERE collection = %s AND id = %s`, p(1), p(2)),
	}
}
