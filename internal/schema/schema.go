// Package schema executes the DDL files that create a family's tables (or
// the index set) against the target database before the first bulk copy.
// Each file is applied as a single sql-migrate migration identified by its
// path, so a file already applied to a given database is a no-op the next
// time the loader runs against it.
package schema

import (
	"context"
	"database/sql"
	"os"

	"discogsload/internal/errs"
	"discogsload/pkg/logger"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

const dialect = "postgres"

// Runner executes SQL files read from disk against the target database.
type Runner struct {
	connString string
	log        logger.Logger
}

// New builds a Runner against the given Postgres connection string.
func New(connString string, log logger.Logger) *Runner {
	return &Runner{connString: connString, log: log.Function("schema")}
}

// ApplyFile reads path and applies its contents as a single sql-migrate
// migration. A read failure is a ConfigError; an execution failure is a
// SchemaError naming path.
func (r *Runner) ApplyFile(ctx context.Context, path string) error {
	log := r.log.File(path)

	ddl, err := os.ReadFile(path)
	if err != nil {
		return log.Err("read DDL file", errs.NewConfigError("read "+path, err))
	}

	db, err := sql.Open(dialect, r.connString)
	if err != nil {
		return log.Err("open database", errs.NewDatabaseError("open", err))
	}
	defer func() { _ = db.Close() }()

	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{Id: path, Up: []string{string(ddl)}},
		},
	}

	n, err := migrate.Exec(db, dialect, migrations, migrate.Up)
	if err != nil {
		return log.Err("execute DDL", errs.NewSchemaError(path, err))
	}

	log.Info("applied DDL file", "migrations_applied", n)
	return nil
}

// TableFileFor maps an entity family to its DDL file path under sql/tables.
func TableFileFor(family string) string {
	switch family {
	case "artists":
		return "sql/tables/artist.sql"
	case "labels":
		return "sql/tables/label.sql"
	case "masters":
		return "sql/tables/master.sql"
	case "releases":
		return "sql/tables/release.sql"
	default:
		return ""
	}
}

// IndexFile is the DDL file executed once, after all input files, when
// index creation was requested.
const IndexFile = "sql/indexes.sql"
