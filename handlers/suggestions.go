// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/middleware"
	"github.com/moimlab/moim/models"
	"github.com/moimlab/moim/overlap"
)

// defaultDateLimit caps how many suggested dates one response carries.
const defaultDateLimit = 10

type SuggestionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSuggestionHandler(db *sql.DB, cfg cliparse.Config) *SuggestionHandler {
	return &SuggestionHandler{db: db, cfg: cfg}
}

// GetSuggestions handles GET /rooms/{code}/suggestions
// Optional ?group= restricts both the selections and the denominator to
// participants carrying that group tag; ?limit= caps the date count.
func (h *SuggestionHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	group := r.URL.Query().Get("group")
	limit := defaultDateLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	roster, err := loadRoster(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query roster", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if group != "" {
		filtered := roster[:0]
		for _, u := range roster {
			for _, tag := range u.Tags {
				if tag == group {
					filtered = append(filtered, u)
					break
				}
			}
		}
		roster = filtered
	}
	totalUsers := len(roster)

	selections, err := h.loadSelections(room.ID, "", roster)
	if err != nil {
		slog.Error("failed to query selections", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	confirmations, err := loadConfirmations(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query confirmations", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	appointments := make([]overlap.Appointment, 0, len(confirmations))
	for _, c := range confirmations {
		a := overlap.Appointment{
			Date:           c.Date,
			AllDay:         c.IsAllDay,
			ParticipantIDs: c.ParticipantUserIDs,
		}
		if c.StartTime != nil {
			a.StartTime = *c.StartTime
		}
		if c.EndTime != nil {
			a.EndTime = *c.EndTime
		}
		appointments = append(appointments, a)
	}

	results := overlap.Calculate(selections, totalUsers)
	results = overlap.ExcludeConfirmed(results, appointments, totalUsers)

	fullCount, partialCount := 0, 0
	for _, res := range results {
		if res.FullOverlap {
			fullCount++
		} else {
			partialCount++
		}
	}

	dates := []models.SuggestedDate{}
	for _, g := range overlap.TopDates(results, limit) {
		dates = append(dates, suggestedDate(g))
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuggestionsResponse{
		TotalUsers:          totalUsers,
		FullOverlapCount:    fullCount,
		PartialOverlapCount: partialCount,
		Dates:               dates,
	})
}

// GetDayOverlaps handles GET /rooms/{code}/overlaps?date=
// Returns the per-hour participation strip clients render behind the slot
// picker. Every hour of the day is present, zero-count hours included.
func (h *SuggestionHandler) GetDayOverlaps(w http.ResponseWriter, r *http.Request) {
	room, ok := roomFromRequest(w, r, h.db)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if !validDate(date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	roster, err := loadRoster(h.db, room.ID)
	if err != nil {
		slog.Error("failed to query roster", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	totalUsers := len(roster)

	selections, err := h.loadSelections(room.ID, date, roster)
	if err != nil {
		slog.Error("failed to query selections", "error", err, "room_id", room.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results := overlap.Calculate(selections, totalUsers)

	hours := make([]models.HourOverlap, 24)
	for hr := range hours {
		hours[hr] = models.HourOverlap{Hour: hr, UserIDs: []string{}}
		if res, found := overlap.ForSlot(results, date, hr); found {
			hours[hr].UserCount = res.UserCount
			hours[hr].UserIDs = res.UserIDs
			hours[hr].IsFullOverlap = res.FullOverlap
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.DayOverlapResponse{
		Date:       date,
		TotalUsers: totalUsers,
		Hours:      hours,
	})
}

// loadSelections reads availability rows and coerces them into well-formed
// engine input, joining display metadata from the roster. Rows belonging to
// users outside the roster (e.g. outside the requested group) are skipped, as
// are hourly rows missing a time bound.
func (h *SuggestionHandler) loadSelections(roomID, date string, roster []models.RoomUser) ([]overlap.Selection, error) {
	byUser := make(map[string]models.RoomUser, len(roster))
	for _, u := range roster {
		byUser[u.UserID] = u
	}

	query := `
		SELECT user_id, date, is_all_day, start_time, end_time
		FROM time_selection
		WHERE room_id = $1`
	args := []interface{}{roomID}
	if date != "" {
		args = append(args, date)
		query += ` AND date = $2`
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := []overlap.Selection{}
	for rows.Next() {
		var userID, selDate string
		var isAllDay bool
		var start, end sql.NullString
		if err := rows.Scan(&userID, &selDate, &isAllDay, &start, &end); err != nil {
			return nil, err
		}

		user, member := byUser[userID]
		if !member {
			continue
		}
		if !isAllDay && (!start.Valid || !end.Valid) {
			continue
		}

		sel := overlap.Selection{
			UserID:    user.UserID,
			UserName:  user.Name,
			UserColor: user.Color,
			Date:      selDate,
			AllDay:    isAllDay,
		}
		if !isAllDay {
			sel.StartTime = start.String
			sel.EndTime = end.String
		}
		selections = append(selections, sel)
	}
	return selections, rows.Err()
}

// suggestedDate translates an engine date group into its response shape,
// rendering hour slots as "HH:00" ranges and the all-day representative slot
// with the all-day label.
func suggestedDate(g overlap.DateGroup) models.SuggestedDate {
	slots := make([]models.SuggestedSlot, len(g.Slots))
	for i, res := range g.Slots {
		slot := models.SuggestedSlot{
			Date:          res.Date,
			Hour:          res.Hour,
			UserIDs:       res.UserIDs,
			UserCount:     res.UserCount,
			IsFullOverlap: res.FullOverlap,
			Score:         res.Score,
		}
		if res.Kind == overlap.KindAllDay {
			slot.StartTime = models.AllDayLabel
			slot.EndTime = models.AllDayLabel
		} else {
			slot.StartTime = overlap.FormatHour(res.Hour)
			slot.EndTime = overlap.FormatHour(res.Hour + 1)
		}

		slot.Users = make([]models.SlotUser, len(res.Users))
		for j, u := range res.Users {
			slot.Users[j] = models.SlotUser{ID: u.ID, Name: u.Name, Color: u.Color}
		}
		slots[i] = slot
	}

	return models.SuggestedDate{
		Date:          g.Date,
		MaxUserCount:  g.MaxUserCount,
		IsFullOverlap: g.FullOverlap,
		Score:         g.Score,
		Slots:         slots,
	}
}
