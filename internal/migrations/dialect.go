package migrations

import (
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// IsSQLite reports whether db uses the SQLite dialect.
func IsSQLite(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.SQLite
}

// IsPostgreSQL reports whether db uses the PostgreSQL dialect.
func IsPostgreSQL(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.PG
}

func dropTable(db *bun.DB, table string) string {
	if IsPostgreSQL(db) {
		return "DROP TABLE IF EXISTS " + table + " CASCADE"
	}
	return "DROP TABLE IF EXISTS " + table
}
