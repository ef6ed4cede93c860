package telemetry

import (
	"database/sql"
	"net/url"
	"strings"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OpenDB opens a traced Postgres connection pool pinned to the given schema.
// Each service owns exactly one schema (inventory or orders).
func OpenDB(dsn, schema string) (*sql.DB, error) {
	db, err := otelsql.Open("postgres", SchemaDSN(dsn, schema),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// SchemaDSN embeds the search_path in the connection options, so every
// connection the pool opens lands on the schema. A one-shot
// `SET search_path` after opening would only configure the single pooled
// connection it happens to run on; any other connection in the pool would
// still resolve unqualified table names against the default path.
func SchemaDSN(dsn, schema string) string {
	options := "-c search_path=" + schema

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err == nil {
			q := u.Query()
			q.Set("options", options)
			u.RawQuery = q.Encode()
			return u.String()
		}
	}

	return dsn + " options='" + options + "'"
}
