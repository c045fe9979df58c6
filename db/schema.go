// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are written by the application so the DDL works unchanged on
// both sqlite and postgres. List-valued columns (tags, participants) hold
// JSON-encoded arrays for the same reason.
const schema = `
-- Rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    is_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
    creator_user_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_room_code ON room(code);
CREATE INDEX IF NOT EXISTS idx_room_expires_at ON room(expires_at);

-- Participants
CREATE TABLE IF NOT EXISTS room_user (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    color TEXT NOT NULL,
    joined_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    UNIQUE (room_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_room_user_room_id ON room_user(room_id);

-- Groups (participant tags)
CREATE TABLE IF NOT EXISTS room_group (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    color TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (room_id, name)
);

CREATE INDEX IF NOT EXISTS idx_room_group_room_id ON room_group(room_id);

-- Availability selections
CREATE TABLE IF NOT EXISTS time_selection (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    is_all_day BOOLEAN NOT NULL DEFAULT FALSE,
    start_time TEXT,
    end_time TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_time_selection_room_id ON time_selection(room_id);
CREATE INDEX IF NOT EXISTS idx_time_selection_room_date ON time_selection(room_id, date);
CREATE INDEX IF NOT EXISTS idx_time_selection_user ON time_selection(room_id, user_id, date);

-- Confirmed appointments
CREATE TABLE IF NOT EXISTS confirmation (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    is_all_day BOOLEAN NOT NULL DEFAULT FALSE,
    start_time TEXT,
    end_time TEXT,
    participant_user_ids TEXT NOT NULL,
    participant_group_names TEXT,
    location TEXT,
    memo TEXT,
    confirmed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_confirmation_room_id ON confirmation(room_id);
`
