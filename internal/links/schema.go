package links

import "database/sql"

// InitSchema ensures the DB has the tables needed for the link history.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS links (
            id TEXT PRIMARY KEY,
            kind TEXT NOT NULL,
            ref TEXT,
            url TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_links_kind_created ON links(kind, created_at)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
