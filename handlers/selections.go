// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/middleware"
	"github.com/moimlab/moim/models"
)

type SelectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSelectionHandler(db *sql.DB, cfg cliparse.Config) *SelectionHandler {
	return &SelectionHandler{db: db, cfg: cfg}
}

// SaveSelections handles PUT /rooms/{code}/selections
// Replaces one user's availability for one date. Sending neither the all-day
// flag nor any slots clears that date.
func (h *SelectionHandler) SaveSelections(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	var req models.SaveSelectionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !validDate(req.Date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.IsAllDay && len(req.Slots) > 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "all-day selections cannot carry slots")
		return
	}
	for _, slot := range req.Slots {
		if !validSlotTime(slot.StartTime) || !validSlotTime(slot.EndTime) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "slot times must be HH:00 on hour boundaries")
			return
		}
		if slot.StartTime >= slot.EndTime {
			middleware.ErrorResponse(w, http.StatusBadRequest, "slot end_time must be after start_time")
			return
		}
	}

	// Only participants of the room may record availability.
	var memberCount int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM room_user WHERE room_id = $1 AND user_id = $2
	`, room.ID, req.UserID).Scan(&memberCount)
	if err != nil {
		slog.Error("failed to query room user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if memberCount == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found in room")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Replace semantics: drop whatever this user had on this date first.
	_, err = tx.Exec(`
		DELETE FROM time_selection WHERE room_id = $1 AND user_id = $2 AND date = $3
	`, room.ID, req.UserID, req.Date)
	if err != nil {
		slog.Error("failed to clear selections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save selections")
		return
	}

	now := time.Now().UTC()
	saved := []models.TimeSelection{}

	if req.IsAllDay {
		sel := models.TimeSelection{
			ID:        uuid.NewString(),
			RoomID:    room.ID,
			UserID:    req.UserID,
			Date:      req.Date,
			IsAllDay:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = tx.Exec(`
			INSERT INTO time_selection (id, room_id, user_id, date, is_all_day, start_time, end_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, TRUE, NULL, NULL, $5, $6)
		`, sel.ID, room.ID, req.UserID, req.Date, now, now)
		if err != nil {
			slog.Error("failed to insert selection", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save selections")
			return
		}
		saved = append(saved, sel)
	} else {
		for _, slot := range req.Slots {
			start, end := slot.StartTime, slot.EndTime
			sel := models.TimeSelection{
				ID:        uuid.NewString(),
				RoomID:    room.ID,
				UserID:    req.UserID,
				Date:      req.Date,
				StartTime: &start,
				EndTime:   &end,
				CreatedAt: now,
				UpdatedAt: now,
			}
			_, err = tx.Exec(`
				INSERT INTO time_selection (id, room_id, user_id, date, is_all_day, start_time, end_time, created_at, updated_at)
				VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8)
			`, sel.ID, room.ID, req.UserID, req.Date, start, end, now, now)
			if err != nil {
				slog.Error("failed to insert selection", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save selections")
				return
			}
			saved = append(saved, sel)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save selections")
		return
	}

	slog.Info("selections saved", "room_id", room.ID, "user_id", req.UserID,
		"date", req.Date, "count", len(saved))

	middleware.JSONResponse(w, http.StatusOK, models.SaveSelectionsResponse{
		Saved:      len(saved),
		Selections: saved,
	})
}

// ListSelections handles GET /rooms/{code}/selections
// Optional ?date= and ?user_id= filters.
func (h *SelectionHandler) ListSelections(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date != "" && !validDate(date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	userID := r.URL.Query().Get("user_id")

	query := `
		SELECT id, room_id, user_id, date, is_all_day, start_time, end_time, created_at, updated_at
		FROM time_selection
		WHERE room_id = $1`
	args := []interface{}{room.ID}

	if date != "" {
		args = append(args, date)
		query += ` AND date = $2`
	}
	if userID != "" {
		args = append(args, userID)
		if date != "" {
			query += ` AND user_id = $3`
		} else {
			query += ` AND user_id = $2`
		}
	}
	query += ` ORDER BY date, user_id, start_time`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query selections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	selections := []models.TimeSelection{}
	for rows.Next() {
		var sel models.TimeSelection
		if err := rows.Scan(&sel.ID, &sel.RoomID, &sel.UserID, &sel.Date,
			&sel.IsAllDay, &sel.StartTime, &sel.EndTime, &sel.CreatedAt, &sel.UpdatedAt); err != nil {
			slog.Error("failed to scan selection", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		selections = append(selections, sel)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read selections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, selections)
}
