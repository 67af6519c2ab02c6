package sqlite

import "database/sql"

func RunMigrations(db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			deposit_attempts INTEGER NOT NULL DEFAULT 0,
			deposit_verified INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS charges (
			transaction_id TEXT PRIMARY KEY,
			payment_code TEXT NOT NULL,
			amount TEXT NOT NULL,
			status TEXT NOT NULL,
			checks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			payload BLOB NOT NULL,
			published INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
