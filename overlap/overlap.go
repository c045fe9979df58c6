// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package overlap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SlotKind distinguishes a concrete hour-long slot from the synthetic
// representative slot emitted when a date has only all-day selections.
type SlotKind int

const (
	KindHourly SlotKind = iota
	KindAllDay
)

// fullOverlapBonus is added to the score when every participant is available.
// The score is capped at 100 afterwards.
const fullOverlapBonus = 10.0

// User carries the display metadata attached to a selection.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Selection is one user's availability claim for a single calendar date.
// StartTime and EndTime are "HH:MM" or "HH:MM:SS" strings on hour boundaries
// and are meaningful only when AllDay is false. A user may contribute several
// selections for the same date.
type Selection struct {
	UserID    string
	UserName  string
	UserColor string
	Date      string // YYYY-MM-DD
	AllDay    bool
	StartTime string
	EndTime   string
}

// Result describes one overlapping slot on one date. For KindAllDay the hour
// is fixed at 0 as a representative placeholder; it does not mean "midnight
// only".
type Result struct {
	Date        string
	Kind        SlotKind
	Hour        int
	UserIDs     []string
	Users       []User
	UserCount   int
	FullOverlap bool
	Score       float64
}

// Calculate transforms per-user availability selections into a ranked list of
// overlapping slot descriptors. Hourly selections are expanded into hour
// buckets over [start, end); all-day users count toward every hour bucket on
// their date. Buckets with fewer than two users are dropped. A date carrying
// only all-day selections (at least two distinct users) produces a single
// KindAllDay result.
//
// Selections missing a time bound on a non-all-day record are silently
// skipped. An empty selection list or totalUsers == 0 yields an empty result.
// A negative totalUsers is a caller bug and panics.
func Calculate(selections []Selection, totalUsers int) []Result {
	if totalUsers < 0 {
		panic(fmt.Sprintf("overlap: totalUsers must be >= 0, got %d", totalUsers))
	}
	if len(selections) == 0 || totalUsers == 0 {
		return nil
	}

	byDate := make(map[string][]Selection)
	for _, s := range selections {
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	var results []Result

	for date, daySelections := range byDate {
		allDay := make(map[string]User)
		hours := make(map[int]map[string]User)

		for _, s := range daySelections {
			if s.AllDay {
				allDay[s.UserID] = User{ID: s.UserID, Name: s.UserName, Color: s.UserColor}
				continue
			}

			start, end, ok := hourRange(s.StartTime, s.EndTime)
			if !ok {
				// Malformed bounds are tolerated, not fatal.
				continue
			}

			for h := start; h < end; h++ {
				bucket := hours[h]
				if bucket == nil {
					bucket = make(map[string]User)
					hours[h] = bucket
				}
				bucket[s.UserID] = User{ID: s.UserID, Name: s.UserName, Color: s.UserColor}
			}
		}

		// A date with only all-day marks would otherwise produce nothing.
		if len(hours) == 0 {
			if len(allDay) >= 2 {
				results = append(results, makeResult(date, KindAllDay, 0, allDay, totalUsers))
			}
			continue
		}

		for h, bucket := range hours {
			// All-day availability implies availability at every hour.
			for id, u := range allDay {
				if _, counted := bucket[id]; !counted {
					bucket[id] = u
				}
			}

			if len(bucket) >= 2 {
				results = append(results, makeResult(date, KindHourly, h, bucket, totalUsers))
			}
		}
	}

	sortResults(results)
	return results
}

// ForSlot returns the result covering the given date and hour, if any.
func ForSlot(results []Result, date string, hour int) (Result, bool) {
	for _, r := range results {
		if r.Date == date && r.Hour == hour {
			return r, true
		}
	}
	return Result{}, false
}

// FormatHour renders an hour as a zero-padded "HH:00" display label.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func makeResult(date string, kind SlotKind, hour int, users map[string]User, totalUsers int) Result {
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	list := make([]User, len(ids))
	for i, id := range ids {
		list[i] = users[id]
	}

	count := len(ids)
	full := count == totalUsers

	score := float64(count) / float64(totalUsers) * 100
	if full {
		score += fullOverlapBonus
	}
	if score > 100 {
		score = 100
	}

	return Result{
		Date:        date,
		Kind:        kind,
		Hour:        hour,
		UserIDs:     ids,
		Users:       list,
		UserCount:   count,
		FullOverlap: full,
		Score:       score,
	}
}

// sortResults orders by score descending, breaking ties by (date, hour)
// ascending so identical input always yields identical output.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Hour < b.Hour
	})
}

func hourRange(start, end string) (int, int, bool) {
	s, ok := parseHour(start)
	if !ok {
		return 0, 0, false
	}
	e, ok := parseHour(end)
	if !ok {
		return 0, 0, false
	}
	return s, e, true
}

// parseHour extracts the leading hour from "HH:MM" or "HH:MM:SS".
func parseHour(t string) (int, bool) {
	if t == "" {
		return 0, false
	}
	head, _, _ := strings.Cut(t, ":")
	h, err := strconv.Atoi(head)
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	return h, true
}
