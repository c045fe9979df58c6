// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/middleware"
	"github.com/moimlab/moim/models"
)

type GroupHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewGroupHandler(db *sql.DB, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{db: db, cfg: cfg}
}

// CreateGroup handles POST /rooms/{code}/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validGroupName(req.Name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required (max 20 characters)")
		return
	}
	if !validColor(req.Color) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "color must be #RRGGBB")
		return
	}

	var existing int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM room_group WHERE room_id = $1 AND name = $2
	`, room.ID, req.Name).Scan(&existing)
	if err != nil {
		slog.Error("failed to query group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if existing > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Group already exists")
		return
	}

	group := models.RoomGroup{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
	}
	_, err = h.db.Exec(`
		INSERT INTO room_group (id, room_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, group.ID, group.RoomID, group.Name, group.Color, group.CreatedAt)
	if err != nil {
		slog.Error("failed to insert group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	slog.Info("group created", "room_id", room.ID, "name", group.Name)

	middleware.JSONResponse(w, http.StatusCreated, group)
}

// ListGroups handles GET /rooms/{code}/groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, room_id, name, color, created_at
		FROM room_group
		WHERE room_id = $1
		ORDER BY created_at, name
	`, room.ID)
	if err != nil {
		slog.Error("failed to query groups", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	groups := []models.RoomGroup{}
	for rows.Next() {
		var g models.RoomGroup
		if err := rows.Scan(&g.ID, &g.RoomID, &g.Name, &g.Color, &g.CreatedAt); err != nil {
			slog.Error("failed to scan group", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read groups", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, groups)
}

// DeleteGroup handles DELETE /rooms/{code}/groups/{name}
// Also strips the group tag from every participant carrying it.
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	name := r.PathValue("name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group name is required")
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
		DELETE FROM room_group WHERE room_id = $1 AND name = $2
	`, room.ID, name)
	if err != nil {
		slog.Error("failed to delete group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}

	if err := stripTag(tx, room.ID, name); err != nil {
		slog.Error("failed to strip group tag", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}

	slog.Info("group deleted", "room_id", room.ID, "name", name)
	w.WriteHeader(http.StatusNoContent)
}

// stripTag removes a tag from every room_user row in the room that carries it.
func stripTag(tx *sql.Tx, roomID, tag string) error {
	rows, err := tx.Query(`
		SELECT id, tags FROM room_user WHERE room_id = $1
	`, roomID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type update struct {
		id   string
		tags string
	}
	var updates []update

	for rows.Next() {
		var id, rawTags string
		if err := rows.Scan(&id, &rawTags); err != nil {
			return err
		}
		if !strings.Contains(rawTags, tag) {
			continue
		}

		tags := decodeTags(rawTags)
		kept := tags[:0]
		for _, t := range tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(tags) {
			continue
		}

		encoded, _ := json.Marshal(kept)
		updates = append(updates, update{id: id, tags: string(encoded)})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, u := range updates {
		if _, err := tx.Exec(`UPDATE room_user SET tags = $1 WHERE id = $2`, u.tags, u.id); err != nil {
			return err
		}
	}
	return nil
}
