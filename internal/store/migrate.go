package store

import (
	"database/sql"
)

const schemaVersion = 1

// Migrate brings the schema up to date. It is safe to call on every start.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS logos (
  key TEXT PRIMARY KEY,
  source_url TEXT NOT NULL DEFAULT '',
  content_type TEXT NOT NULL,
  bytes BLOB NOT NULL,
  fetched_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_logos_fetched_at ON logos(fetched_at);`,
		`CREATE TABLE IF NOT EXISTS company_domains (
  company TEXT PRIMARY KEY,
  domain TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_company_domains_domain ON company_domains(domain);`,
		`PRAGMA user_version = 1;`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}
