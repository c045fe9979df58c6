// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package overlap

import "sort"

// Appointment is a confirmed booking. Its participants are no longer
// candidates for the slots it covers and are stripped from suggestions there.
type Appointment struct {
	Date           string
	AllDay         bool
	StartTime      string
	EndTime        string
	ParticipantIDs []string
}

func (a Appointment) covers(date string, hour int) bool {
	if a.Date != date {
		return false
	}
	if a.AllDay {
		return true
	}
	start, end, ok := hourRange(a.StartTime, a.EndTime)
	if !ok {
		return false
	}
	return hour >= start && hour < end
}

// ExcludeConfirmed removes users already committed to a confirmed appointment
// from every result whose slot the appointment covers, then recomputes the
// count, full-overlap flag and score against the same totalUsers denominator.
// Results that fall below the two-user threshold are dropped. The input slice
// is not modified.
func ExcludeConfirmed(results []Result, confirmed []Appointment, totalUsers int) []Result {
	if len(confirmed) == 0 {
		return results
	}

	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		excluded := make(map[string]bool)
		for _, a := range confirmed {
			if !a.covers(r.Date, r.Hour) {
				continue
			}
			for _, id := range a.ParticipantIDs {
				excluded[id] = true
			}
		}

		if len(excluded) == 0 {
			filtered = append(filtered, r)
			continue
		}

		kept := make(map[string]User, len(r.Users))
		for _, u := range r.Users {
			if !excluded[u.ID] {
				kept[u.ID] = u
			}
		}
		if len(kept) < 2 {
			continue
		}
		filtered = append(filtered, makeResult(r.Date, r.Kind, r.Hour, kept, totalUsers))
	}

	sortResults(filtered)
	return filtered
}

// DateGroup rolls one date's overlapping slots up to headline numbers: the
// largest slot's user count and score, whether any slot covers everyone, and
// the slots themselves ordered by count then hour.
type DateGroup struct {
	Date         string
	MaxUserCount int
	FullOverlap  bool
	Score        float64
	Slots        []Result
}

// TopDates groups results by date, ranks the groups by score descending
// (ties by date ascending) and keeps at most limit groups. A limit <= 0
// keeps everything.
func TopDates(results []Result, limit int) []DateGroup {
	groups := make(map[string]*DateGroup)
	var order []string

	for _, r := range results {
		g := groups[r.Date]
		if g == nil {
			g = &DateGroup{
				Date:         r.Date,
				MaxUserCount: r.UserCount,
				FullOverlap:  r.FullOverlap,
				Score:        r.Score,
			}
			groups[r.Date] = g
			order = append(order, r.Date)
		} else {
			if r.UserCount > g.MaxUserCount {
				g.MaxUserCount = r.UserCount
				g.Score = r.Score
			}
			if r.FullOverlap {
				g.FullOverlap = true
			}
		}
		g.Slots = append(g.Slots, r)
	}

	list := make([]DateGroup, 0, len(groups))
	for _, date := range order {
		g := groups[date]
		sort.Slice(g.Slots, func(i, j int) bool {
			a, b := g.Slots[i], g.Slots[j]
			if a.UserCount != b.UserCount {
				return a.UserCount > b.UserCount
			}
			return a.Hour < b.Hour
		})
		list = append(list, *g)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Date < list[j].Date
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
