// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/middleware"
	"github.com/moimlab/moim/models"
)

type ConfirmationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewConfirmationHandler(db *sql.DB, cfg cliparse.Config) *ConfirmationHandler {
	return &ConfirmationHandler{db: db, cfg: cfg}
}

// CreateConfirmation handles POST /rooms/{code}/confirmations
// Group names expand to their members; the stored participant list is the
// union of explicit user ids and expanded group members.
func (h *ConfirmationHandler) CreateConfirmation(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	var req models.CreateConfirmationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validDate(req.Date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !req.IsAllDay {
		if !validSlotTime(req.StartTime) || !validSlotTime(req.EndTime) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "start_time and end_time must be HH:00")
			return
		}
		if req.StartTime >= req.EndTime {
			middleware.ErrorResponse(w, http.StatusBadRequest, "end_time must be after start_time")
			return
		}
	}
	if len(req.Location) > maxLocationLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "location too long (max 100 characters)")
		return
	}
	if len(req.Memo) > maxMemoLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "memo too long (max 500 characters)")
		return
	}

	participants := map[string]bool{}
	for _, id := range req.ParticipantUserIDs {
		participants[id] = true
	}

	if len(req.ParticipantGroupNames) > 0 {
		users, err := loadRoster(h.db, room.ID)
		if err != nil {
			slog.Error("failed to query roster", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		wanted := map[string]bool{}
		for _, g := range req.ParticipantGroupNames {
			wanted[g] = true
		}
		for _, u := range users {
			for _, tag := range u.Tags {
				if wanted[tag] {
					participants[u.UserID] = true
					break
				}
			}
		}
	}

	if len(participants) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one participant is required")
		return
	}

	ids := make([]string, 0, len(participants))
	for id := range participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	idsJSON, _ := json.Marshal(ids)

	groupNames := req.ParticipantGroupNames
	if groupNames == nil {
		groupNames = []string{}
	}
	groupsJSON, _ := json.Marshal(groupNames)

	conf := models.Confirmation{
		ID:                    uuid.NewString(),
		RoomID:                room.ID,
		Date:                  req.Date,
		IsAllDay:              req.IsAllDay,
		ParticipantUserIDs:    ids,
		ParticipantGroupNames: groupNames,
		ConfirmedAt:           time.Now().UTC(),
	}
	if !req.IsAllDay {
		start, end := req.StartTime, req.EndTime
		conf.StartTime, conf.EndTime = &start, &end
	}
	if req.Location != "" {
		loc := req.Location
		conf.Location = &loc
	}
	if req.Memo != "" {
		memo := req.Memo
		conf.Memo = &memo
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO confirmation (id, room_id, date, is_all_day, start_time, end_time,
			participant_user_ids, participant_group_names, location, memo, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, conf.ID, conf.RoomID, conf.Date, conf.IsAllDay, conf.StartTime, conf.EndTime,
		string(idsJSON), string(groupsJSON), conf.Location, conf.Memo, conf.ConfirmedAt)
	if err != nil {
		slog.Error("failed to insert confirmation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to confirm appointment")
		return
	}

	_, err = tx.Exec(`UPDATE room SET is_confirmed = TRUE WHERE id = $1`, room.ID)
	if err != nil {
		slog.Error("failed to flag room confirmed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to confirm appointment")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to confirm appointment")
		return
	}

	slog.Info("appointment confirmed", "room_id", room.ID, "date", conf.Date,
		"participants", len(ids))

	middleware.JSONResponse(w, http.StatusCreated, conf)
}

// ListConfirmations handles GET /rooms/{code}/confirmations
func (h *ConfirmationHandler) ListConfirmations(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	confirmations, err := loadConfirmations(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query confirmations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, confirmations)
}

// DeleteConfirmation handles DELETE /rooms/{code}/confirmations/{id}
// Clears the room's confirmed flag when the last confirmation goes away.
func (h *ConfirmationHandler) DeleteConfirmation(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	confirmationID := r.PathValue("id")
	if confirmationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confirmation id is required")
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
		DELETE FROM confirmation WHERE id = $1 AND room_id = $2
	`, confirmationID, room.ID)
	if err != nil {
		slog.Error("failed to delete confirmation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete confirmation")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Confirmation not found")
		return
	}

	var remaining int
	err = tx.QueryRow(`SELECT COUNT(*) FROM confirmation WHERE room_id = $1`, room.ID).Scan(&remaining)
	if err != nil {
		slog.Error("failed to count confirmations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if remaining == 0 {
		if _, err := tx.Exec(`UPDATE room SET is_confirmed = FALSE WHERE id = $1`, room.ID); err != nil {
			slog.Error("failed to clear room confirmed flag", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete confirmation")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete confirmation")
		return
	}

	slog.Info("confirmation deleted", "room_id", room.ID, "confirmation_id", confirmationID)
	w.WriteHeader(http.StatusNoContent)
}

func loadConfirmations(db *sql.DB, roomID string) ([]models.Confirmation, error) {
	rows, err := db.Query(`
		SELECT id, room_id, date, is_all_day, start_time, end_time,
		       participant_user_ids, participant_group_names, location, memo, confirmed_at
		FROM confirmation
		WHERE room_id = $1
		ORDER BY date, confirmed_at
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confirmations := []models.Confirmation{}
	for rows.Next() {
		var c models.Confirmation
		var idsJSON string
		var groupsJSON sql.NullString
		if err := rows.Scan(&c.ID, &c.RoomID, &c.Date, &c.IsAllDay, &c.StartTime,
			&c.EndTime, &idsJSON, &groupsJSON, &c.Location, &c.Memo, &c.ConfirmedAt); err != nil {
			return nil, err
		}
		c.ParticipantUserIDs = decodeTags(idsJSON)
		if groupsJSON.Valid {
			c.ParticipantGroupNames = decodeTags(groupsJSON.String)
		}
		confirmations = append(confirmations, c)
	}
	return confirmations, rows.Err()
}
