// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests, the CLI and server bootstrap.
//
// Each supported backend has its own directory because the schemas differ in
// column types (uuid/date/timestamptz on Postgres, TEXT on SQLite).
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migrations for the Postgres backend.
// Pass it to goose.NewProvider with goose.DialectPostgres.
func Postgres() fs.FS {
	return mustSub("postgres")
}

// SQLite returns the migrations for the embedded SQLite backend.
// Pass it to goose.NewProvider with goose.DialectSQLite3.
func SQLite() fs.FS {
	return mustSub("sqlite")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		// Only reachable if the embed directive and dir disagree.
		panic("migrations: " + err.Error())
	}
	return sub
}
