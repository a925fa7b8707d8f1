package catalog

import (
	"context"
	"fmt"
)

// schemaVersion tracks the catalog layout. Bump it together with any DDL
// change below; the store recreates tables only when the version moves.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS persons (
    id TEXT PRIMARY KEY,
    tmdb_id INTEGER UNIQUE,
    name TEXT NOT NULL,
    name_norm TEXT NOT NULL,
    slug TEXT NOT NULL,
    date_of_birth TEXT,
    country TEXT,
    gender TEXT,
    professions_json TEXT,
    ethnicity_json TEXT,
    eye_color TEXT,
    hair_color TEXT,
    height TEXT,
    body_type TEXT,
    is_deceased INTEGER NOT NULL DEFAULT 0,
    death_date TEXT,
    intro_json TEXT,
    biography_json TEXT,
    keywords_json TEXT,
    faqs_json TEXT,
    image_ref TEXT,
    power_meter INTEGER NOT NULL DEFAULT 0,
    credits_json TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_persons_name_norm ON persons(name_norm);
CREATE INDEX IF NOT EXISTS idx_persons_slug ON persons(slug);

CREATE TABLE IF NOT EXISTS films (
    id TEXT PRIMARY KEY,
    tmdb_id INTEGER NOT NULL UNIQUE,
    title TEXT NOT NULL,
    credits_json TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}

	var version int
	row := s.db.QueryRowContext(ctx, `SELECT version FROM schema_info LIMIT 1`)
	if err := row.Scan(&version); err != nil {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}
	if version != schemaVersion {
		return fmt.Errorf("catalog schema version %d is incompatible with expected %d; move or remove the database file", version, schemaVersion)
	}
	return nil
}
