package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name    TEXT NOT NULL,
    last_name     TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS moves (
    id                      INTEGER PRIMARY KEY,
    user_id                 INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    start_location          TEXT NOT NULL,
    end_location            TEXT NOT NULL,
    move_date               DATE NOT NULL,
    status                  TEXT NOT NULL DEFAULT 'planning'
        CHECK (status IN ('planning', 'in_progress', 'completed', 'cancelled')),
    household_size          INTEGER,
    inventory_size_estimate TEXT,
    created_at              DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at              DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_moves_user ON moves(user_id);
CREATE INDEX IF NOT EXISTS idx_moves_status ON moves(status);

CREATE TABLE IF NOT EXISTS tasks (
    id          INTEGER PRIMARY KEY,
    move_id     INTEGER NOT NULL REFERENCES moves(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    description TEXT,
    due_date    DATE,
    status      TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'in_progress', 'completed', 'cancelled')),
    category    TEXT NOT NULL,
    priority    INTEGER NOT NULL DEFAULT 0,
    order_index INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_move ON tasks(move_id);
CREATE INDEX IF NOT EXISTS idx_tasks_move_order ON tasks(move_id, order_index);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category);

CREATE TABLE IF NOT EXISTS rooms (
    id          INTEGER PRIMARY KEY,
    move_id     INTEGER NOT NULL REFERENCES moves(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    description TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rooms_move ON rooms(move_id);

CREATE TABLE IF NOT EXISTS boxes (
    id                  INTEGER PRIMARY KEY,
    move_id             INTEGER NOT NULL REFERENCES moves(id) ON DELETE CASCADE,
    label               TEXT NOT NULL,
    qr_code             TEXT UNIQUE,
    destination_room_id INTEGER REFERENCES rooms(id) ON DELETE SET NULL,
    box_type            TEXT NOT NULL DEFAULT 'standard'
        CHECK (box_type IN ('standard', 'fragile', 'heavy', 'clothing', 'books', 'kitchen', 'bathroom', 'other')),
    notes               TEXT,
    is_packed           INTEGER NOT NULL DEFAULT 0,
    is_loaded           INTEGER NOT NULL DEFAULT 0,
    is_delivered        INTEGER NOT NULL DEFAULT 0,
    packed_at           DATETIME,
    loaded_at           DATETIME,
    delivered_at        DATETIME,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_boxes_move ON boxes(move_id);
CREATE INDEX IF NOT EXISTS idx_boxes_destination_room ON boxes(destination_room_id);

CREATE TABLE IF NOT EXISTS items (
    id                        INTEGER PRIMARY KEY,
    move_id                   INTEGER NOT NULL REFERENCES moves(id) ON DELETE CASCADE,
    room_id                   INTEGER REFERENCES rooms(id) ON DELETE SET NULL,
    box_id                    INTEGER REFERENCES boxes(id) ON DELETE SET NULL,
    name                      TEXT NOT NULL,
    description               TEXT,
    photo_url                 TEXT,
    estimated_value           REAL,
    properties                TEXT,
    condition                 TEXT CHECK (condition IN ('new', 'good', 'fair', 'poor')),
    category                  TEXT,
    is_fragile                INTEGER NOT NULL DEFAULT 0,
    requires_special_handling INTEGER NOT NULL DEFAULT 0,
    created_at                DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at                DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_move ON items(move_id);
CREATE INDEX IF NOT EXISTS idx_items_room ON items(room_id);
CREATE INDEX IF NOT EXISTS idx_items_box ON items(box_id);
CREATE INDEX IF NOT EXISTS idx_items_move_category ON items(move_id, category);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
