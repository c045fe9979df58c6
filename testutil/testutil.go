// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/db"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
// Each test gets its own database; cache=shared keeps it alive across the
// pooled connections, and capping the pool at one connection avoids sqlite
// write contention.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          4726,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		RoomTTL:       7 * 24 * time.Hour,
		SweepInterval: time.Hour,
	}
}

// CreateTestRoom inserts a room and returns its ID and code
func CreateTestRoom(t *testing.T, conn *sql.DB, code string) (roomID string) {
	t.Helper()

	roomID = uuid.NewString()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO room (id, code, created_at, expires_at, is_confirmed)
		VALUES ($1, $2, $3, $4, FALSE)
	`, roomID, code, now, now.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return roomID
}

// CreateExpiredRoom inserts a room whose expiry is already in the past
func CreateExpiredRoom(t *testing.T, conn *sql.DB, code string) (roomID string) {
	t.Helper()

	roomID = uuid.NewString()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO room (id, code, created_at, expires_at, is_confirmed)
		VALUES ($1, $2, $3, $4, FALSE)
	`, roomID, code, now.Add(-8*24*time.Hour), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create expired test room: %v", err)
	}

	return roomID
}

// JoinTestUser adds a participant to a room
func JoinTestUser(t *testing.T, conn *sql.DB, roomID, userID, name, color string, tags []string) {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO room_user (id, room_id, user_id, name, color, joined_at, last_seen_at, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), roomID, userID, name, color, now, now, string(tagsJSON))
	if err != nil {
		t.Fatalf("Failed to join test user: %v", err)
	}
}

// AddTestSelection records one availability row for a user.
// Pass isAllDay=true with empty times, or an hour range like "09:00"/"12:00".
func AddTestSelection(t *testing.T, conn *sql.DB, roomID, userID, date string, isAllDay bool, startTime, endTime string) {
	t.Helper()

	var start, end *string
	if !isAllDay {
		start, end = &startTime, &endTime
	}

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO time_selection (id, room_id, user_id, date, is_all_day, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.NewString(), roomID, userID, date, isAllDay, start, end, now, now)
	if err != nil {
		t.Fatalf("Failed to add test selection: %v", err)
	}
}

// AddTestGroup creates a named group in a room and returns its ID
func AddTestGroup(t *testing.T, conn *sql.DB, roomID, name, color string) string {
	t.Helper()

	groupID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO room_group (id, room_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, groupID, roomID, name, color, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test group: %v", err)
	}

	return groupID
}

// AddTestConfirmation records a confirmed appointment and returns its ID
func AddTestConfirmation(t *testing.T, conn *sql.DB, roomID, date string, isAllDay bool, startTime, endTime string, participantIDs []string) string {
	t.Helper()

	var start, end *string
	if !isAllDay {
		start, end = &startTime, &endTime
	}

	if participantIDs == nil {
		participantIDs = []string{}
	}
	participantsJSON, _ := json.Marshal(participantIDs)

	confirmationID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO confirmation (id, room_id, date, is_all_day, start_time, end_time, participant_user_ids, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, confirmationID, roomID, date, isAllDay, start, end, string(participantsJSON), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test confirmation: %v", err)
	}

	return confirmationID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
