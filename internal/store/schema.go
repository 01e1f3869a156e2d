package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS companies (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL,
    cnpj                 TEXT,
    contact_email        TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contracts (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    company_id           INTEGER NOT NULL REFERENCES companies(id),
    title                TEXT,
    contract_type        TEXT,
    total_hours          REAL NOT NULL,
    start_date           TEXT NOT NULL,
    end_date             TEXT NOT NULL,
    is_active            INTEGER NOT NULL DEFAULT 1,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS time_entries (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    contract_id          INTEGER NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
    user_name            TEXT,
    description          TEXT,
    start_time           TEXT NOT NULL,
    end_time             TEXT,
    duration_secs        INTEGER,
    source_file          TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL UNIQUE,
    email                TEXT,
    role                 TEXT NOT NULL DEFAULT 'member',
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS imported_files (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    entries              INTEGER NOT NULL,
    batch_id             TEXT,
    imported_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_contract ON time_entries(contract_id);
CREATE INDEX IF NOT EXISTS idx_entries_running ON time_entries(end_time) WHERE end_time IS NULL;
CREATE INDEX IF NOT EXISTS idx_contracts_active ON contracts(is_active);
`

const indexSQL = `
CREATE INDEX IF NOT EXISTS idx_entries_source ON time_entries(source_file) WHERE source_file IS NOT NULL;
`

// columnMigrations adds columns to databases created before the column existed.
var columnMigrations = []struct{ table, column, ddl string }{
	{"imported_files", "batch_id", `ALTER TABLE imported_files ADD COLUMN batch_id TEXT`},
	{"time_entries", "source_file", `ALTER TABLE time_entries ADD COLUMN source_file TEXT`},
}
