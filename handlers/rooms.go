// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/middleware"
	"github.com/moimlab/moim/models"
	"github.com/moimlab/moim/roomcode"
)

var (
	errRoomNotFound = errors.New("room not found")
	errRoomExpired  = errors.New("room expired")
)

// codeRetries bounds how often CreateRoom retries on a code collision.
const codeRetries = 5

type RoomHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRoomHandler(db *sql.DB, cfg cliparse.Config) *RoomHandler {
	return &RoomHandler{db: db, cfg: cfg}
}

// lookupRoom resolves a room code to its row. Expired rooms are reported as
// errRoomExpired so handlers can answer 410 instead of 404.
func lookupRoom(db *sql.DB, code string) (models.Room, error) {
	var room models.Room
	err := db.QueryRow(`
		SELECT id, code, created_at, expires_at, is_confirmed, creator_user_id
		FROM room
		WHERE code = $1
	`, roomcode.Normalize(code)).Scan(
		&room.ID, &room.Code, &room.CreatedAt, &room.ExpiresAt,
		&room.IsConfirmed, &room.CreatorUserID,
	)
	if err == sql.ErrNoRows {
		return models.Room{}, errRoomNotFound
	}
	if err != nil {
		return models.Room{}, err
	}
	if time.Now().After(room.ExpiresAt) {
		return models.Room{}, errRoomExpired
	}
	return room, nil
}

// roomFromRequest fetches the room named by the {code} path value and writes
// the error response itself when the room is unavailable.
func roomFromRequest(w http.ResponseWriter, r *http.Request, db *sql.DB) (models.Room, bool) {
	code := r.PathValue("code")
	if !roomcode.Valid(roomcode.Normalize(code)) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid room code")
		return models.Room{}, false
	}

	room, err := lookupRoom(db, code)
	switch {
	case err == errRoomNotFound:
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return models.Room{}, false
	case err == errRoomExpired:
		middleware.ErrorResponse(w, http.StatusGone, "Room expired")
		return models.Room{}, false
	case err != nil:
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Room{}, false
	}
	return room, true
}

func decodeTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}

func loadRoster(db *sql.DB, roomID string) ([]models.RoomUser, error) {
	rows, err := db.Query(`
		SELECT id, room_id, user_id, name, color, joined_at, last_seen_at, tags
		FROM room_user
		WHERE room_id = $1
		ORDER BY joined_at, id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.RoomUser{}
	for rows.Next() {
		var u models.RoomUser
		var tagsJSON string
		if err := rows.Scan(&u.ID, &u.RoomID, &u.UserID, &u.Name, &u.Color,
			&u.JoinedAt, &u.LastSeenAt, &tagsJSON); err != nil {
			return nil, err
		}
		u.Tags = decodeTags(tagsJSON)
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CreatorUserID string `json:"creator_user_id"`
	}
	// Body is optional; an anonymous creator is fine.
	_ = middleware.ParseJSONBody(r, &req)

	now := time.Now().UTC()
	room := models.Room{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(h.cfg.RoomTTL),
	}
	if req.CreatorUserID != "" {
		room.CreatorUserID = &req.CreatorUserID
	}

	// The code space is large but collisions are possible; retry a few times.
	var err error
	for attempt := 0; attempt < codeRetries; attempt++ {
		room.Code, err = roomcode.Generate()
		if err != nil {
			break
		}

		_, err = h.db.Exec(`
			INSERT INTO room (id, code, created_at, expires_at, is_confirmed, creator_user_id)
			VALUES ($1, $2, $3, $4, FALSE, $5)
		`, room.ID, room.Code, room.CreatedAt, room.ExpiresAt, room.CreatorUserID)
		if err == nil {
			break
		}
	}
	if err != nil {
		slog.Error("failed to create room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	slog.Info("room created", "room_id", room.ID, "code", room.Code, "expires_at", room.ExpiresAt)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		Room:      room,
		ExpiresIn: humanize.Time(room.ExpiresAt),
	})
}

// GetRoom handles GET /rooms/{code}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	users, err := loadRoster(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query roster", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomWithUsers{
		Room:      room,
		Users:     users,
		ExpiresIn: humanize.Time(room.ExpiresAt),
	})
}

// JoinRoom handles POST /rooms/{code}/users
// Rejoining with a known user_id refreshes the profile instead of failing.
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	var req models.JoinRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !validName(req.Name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required (max 50 characters)")
		return
	}
	if !validColor(req.Color) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "color must be #RRGGBB")
		return
	}
	for _, tag := range req.Tags {
		if !validGroupName(tag) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "tags must be 1-20 characters")
			return
		}
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)
	now := time.Now().UTC()

	var existingID string
	var joinedAt time.Time
	err := h.db.QueryRow(`
		SELECT id, joined_at FROM room_user WHERE room_id = $1 AND user_id = $2
	`, room.ID, req.UserID).Scan(&existingID, &joinedAt)

	user := models.RoomUser{
		RoomID:     room.ID,
		UserID:     req.UserID,
		Name:       req.Name,
		Color:      req.Color,
		LastSeenAt: now,
		Tags:       tags,
	}

	switch {
	case err == sql.ErrNoRows:
		user.ID = uuid.NewString()
		user.JoinedAt = now
		_, err = h.db.Exec(`
			INSERT INTO room_user (id, room_id, user_id, name, color, joined_at, last_seen_at, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, user.ID, room.ID, req.UserID, req.Name, req.Color, now, now, string(tagsJSON))
		if err != nil {
			slog.Error("failed to insert room user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
			return
		}

		slog.Info("user joined room", "room_id", room.ID, "user_id", req.UserID)
		middleware.JSONResponse(w, http.StatusCreated, user)

	case err == nil:
		user.ID = existingID
		user.JoinedAt = joinedAt
		_, err = h.db.Exec(`
			UPDATE room_user
			SET name = $1, color = $2, tags = $3, last_seen_at = $4
			WHERE id = $5
		`, req.Name, req.Color, string(tagsJSON), now, existingID)
		if err != nil {
			slog.Error("failed to update room user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
			return
		}

		slog.Info("user rejoined room", "room_id", room.ID, "user_id", req.UserID)
		middleware.JSONResponse(w, http.StatusOK, user)

	default:
		slog.Error("failed to query room user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// UpdateUser handles PUT /rooms/{code}/users/{userID}
func (h *RoomHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	userID := r.PathValue("userID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var req models.UpdateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validName(req.Name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required (max 50 characters)")
		return
	}
	if !validColor(req.Color) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "color must be #RRGGBB")
		return
	}
	for _, tag := range req.Tags {
		if !validGroupName(tag) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "tags must be 1-20 characters")
			return
		}
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	result, err := h.db.Exec(`
		UPDATE room_user
		SET name = $1, color = $2, tags = $3, last_seen_at = $4
		WHERE room_id = $5 AND user_id = $6
	`, req.Name, req.Color, string(tagsJSON), time.Now().UTC(), room.ID, userID)
	if err != nil {
		slog.Error("failed to update room user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found in room")
		return
	}

	var user models.RoomUser
	var rawTags string
	err = h.db.QueryRow(`
		SELECT id, room_id, user_id, name, color, joined_at, last_seen_at, tags
		FROM room_user
		WHERE room_id = $1 AND user_id = $2
	`, room.ID, userID).Scan(&user.ID, &user.RoomID, &user.UserID, &user.Name,
		&user.Color, &user.JoinedAt, &user.LastSeenAt, &rawTags)
	if err != nil {
		slog.Error("failed to reload room user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	user.Tags = decodeTags(rawTags)

	middleware.JSONResponse(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /rooms/{code}/users/{userID}
// The user's availability selections go with them.
func (h *RoomHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	userID := r.PathValue("userID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		DELETE FROM room_user WHERE room_id = $1 AND user_id = $2
	`, room.ID, userID)
	if err != nil {
		slog.Error("failed to delete room user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove user")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found in room")
		return
	}

	_, err = tx.Exec(`
		DELETE FROM time_selection WHERE room_id = $1 AND user_id = $2
	`, room.ID, userID)
	if err != nil {
		slog.Error("failed to delete user selections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove user")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove user")
		return
	}

	slog.Info("user removed from room", "room_id", room.ID, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
