// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// AllDayLabel is the display string used in place of clock times when a
// suggestion was derived purely from all-day selections.
const AllDayLabel = "All day"

// Request types

type JoinRoomRequest struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Color  string   `json:"color"`
	Tags   []string `json:"tags,omitempty"`
}

type UpdateUserRequest struct {
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Tags  []string `json:"tags"`
}

// SaveSelectionsRequest replaces one user's availability for one date.
// Either IsAllDay is true, or Slots lists hour ranges; an empty request
// clears the date.
type SaveSelectionsRequest struct {
	UserID   string      `json:"user_id"`
	Date     string      `json:"date"`
	IsAllDay bool        `json:"is_all_day"`
	Slots    []SlotInput `json:"slots,omitempty"`
}

// start/end are "HH:MM" on hour boundaries, end exclusive
type SlotInput struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateGroupRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateConfirmationRequest struct {
	Date                  string   `json:"date"`
	IsAllDay              bool     `json:"is_all_day"`
	StartTime             string   `json:"start_time,omitempty"`
	EndTime               string   `json:"end_time,omitempty"`
	ParticipantUserIDs    []string `json:"participant_user_ids"`
	ParticipantGroupNames []string `json:"participant_group_names,omitempty"`
	Location              string   `json:"location,omitempty"`
	Memo                  string   `json:"memo,omitempty"`
}

// Response types

type CreateRoomResponse struct {
	Room      Room   `json:"room"`
	ExpiresIn string `json:"expires_in"`
}

type RoomWithUsers struct {
	Room      Room       `json:"room"`
	Users     []RoomUser `json:"users"`
	ExpiresIn string     `json:"expires_in"`
}

type SaveSelectionsResponse struct {
	Saved      int             `json:"saved"`
	Selections []TimeSelection `json:"selections"`
}

// SuggestionsResponse ranks the dates where the most participants overlap.
type SuggestionsResponse struct {
	TotalUsers          int             `json:"total_users"`
	FullOverlapCount    int             `json:"full_overlap_count"`
	PartialOverlapCount int             `json:"partial_overlap_count"`
	Dates               []SuggestedDate `json:"dates"`
}

type SuggestedDate struct {
	Date          string          `json:"date"`
	MaxUserCount  int             `json:"max_user_count"`
	IsFullOverlap bool            `json:"is_full_overlap"`
	Score         float64         `json:"score"`
	Slots         []SuggestedSlot `json:"slots"`
}

// SuggestedSlot is one hour-long slot (or the all-day representative slot,
// hour 0 with StartTime == EndTime == AllDayLabel) on one date.
type SuggestedSlot struct {
	Date          string     `json:"date"`
	Hour          int        `json:"hour"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	UserIDs       []string   `json:"user_ids"`
	Users         []SlotUser `json:"users"`
	UserCount     int        `json:"user_count"`
	IsFullOverlap bool       `json:"is_full_overlap"`
	Score         float64    `json:"score"`
}

type SlotUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DayOverlapResponse is the per-hour heat strip for a single date.
type DayOverlapResponse struct {
	Date       string        `json:"date"`
	TotalUsers int           `json:"total_users"`
	Hours      []HourOverlap `json:"hours"`
}

type HourOverlap struct {
	Hour          int      `json:"hour"`
	UserCount     int      `json:"user_count"`
	UserIDs       []string `json:"user_ids"`
	IsFullOverlap bool     `json:"is_full_overlap"`
}

// Domain types

type Room struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsConfirmed   bool      `json:"is_confirmed"`
	CreatorUserID *string   `json:"creator_user_id,omitempty"`
}

type RoomUser struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	JoinedAt   time.Time `json:"joined_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Tags       []string  `json:"tags"`
}

type RoomGroup struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type TimeSelection struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	IsAllDay  bool      `json:"is_all_day"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Confirmation struct {
	ID                    string    `json:"id"`
	RoomID                string    `json:"room_id"`
	Date                  string    `json:"date"`
	IsAllDay              bool      `json:"is_all_day"`
	StartTime             *string   `json:"start_time,omitempty"`
	EndTime               *string   `json:"end_time,omitempty"`
	ParticipantUserIDs    []string  `json:"participant_user_ids"`
	ParticipantGroupNames []string  `json:"participant_group_names,omitempty"`
	Location              *string   `json:"location,omitempty"`
	Memo                  *string   `json:"memo,omitempty"`
	ConfirmedAt           time.Time `json:"confirmed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
