// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcludeConfirmedStripsParticipants(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-07-01", "10:00", "11:00"),
		hourly("u2", "B", "2025-07-01", "10:00", "11:00"),
		hourly("u3", "C", "2025-07-01", "10:00", "11:00"),
	}
	results := Calculate(sels, 3)
	require.Len(t, results, 1)
	require.True(t, results[0].FullOverlap)

	confirmed := []Appointment{{
		Date:           "2025-07-01",
		StartTime:      "10:00",
		EndTime:        "11:00",
		ParticipantIDs: []string{"u3"},
	}}

	filtered := ExcludeConfirmed(results, confirmed, 3)
	require.Len(t, filtered, 1)
	assert.Equal(t, []string{"u1", "u2"}, filtered[0].UserIDs)
	assert.Equal(t, 2, filtered[0].UserCount)
	assert.False(t, filtered[0].FullOverlap)
	assert.InDelta(t, 200.0/3.0, filtered[0].Score, 1e-9)
}

func TestExcludeConfirmedDropsBelowThreshold(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-07-01", "10:00", "11:00"),
		hourly("u2", "B", "2025-07-01", "10:00", "11:00"),
	}
	results := Calculate(sels, 2)
	require.Len(t, results, 1)

	confirmed := []Appointment{{
		Date:           "2025-07-01",
		StartTime:      "10:00",
		EndTime:        "11:00",
		ParticipantIDs: []string{"u1"},
	}}

	assert.Empty(t, ExcludeConfirmed(results, confirmed, 2))
}

func TestExcludeConfirmedOnlyTouchesCoveredSlots(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-07-01", "09:00", "12:00"),
		hourly("u2", "B", "2025-07-01", "09:00", "12:00"),
	}
	results := Calculate(sels, 2)
	require.Len(t, results, 3)

	// Confirmation covers only hour 10.
	confirmed := []Appointment{{
		Date:           "2025-07-01",
		StartTime:      "10:00",
		EndTime:        "11:00",
		ParticipantIDs: []string{"u1", "u2"},
	}}

	filtered := ExcludeConfirmed(results, confirmed, 2)
	require.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.NotEqual(t, 10, r.Hour)
		assert.Equal(t, 2, r.UserCount)
	}
}

func TestExcludeConfirmedAllDayCoversEveryHour(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-07-01", "09:00", "11:00"),
		hourly("u2", "B", "2025-07-01", "09:00", "11:00"),
		hourly("u1", "A", "2025-07-02", "09:00", "10:00"),
		hourly("u2", "B", "2025-07-02", "09:00", "10:00"),
	}
	results := Calculate(sels, 2)
	require.Len(t, results, 3)

	confirmed := []Appointment{{
		Date:           "2025-07-01",
		AllDay:         true,
		ParticipantIDs: []string{"u1"},
	}}

	filtered := ExcludeConfirmed(results, confirmed, 2)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2025-07-02", filtered[0].Date)
}

func TestExcludeConfirmedNoConfirmationsIsIdentity(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-07-01", "10:00", "11:00"),
		hourly("u2", "B", "2025-07-01", "10:00", "11:00"),
	}
	results := Calculate(sels, 2)
	assert.Equal(t, results, ExcludeConfirmed(results, nil, 2))
}

func TestExcludeConfirmedNeverGrowsResults(t *testing.T) {
	sels := []Selection{
		allDay("u1", "A", "2025-07-01"),
		hourly("u2", "B", "2025-07-01", "09:00", "12:00"),
		hourly("u3", "C", "2025-07-01", "10:00", "13:00"),
	}
	results := Calculate(sels, 3)

	confirmed := []Appointment{{
		Date:           "2025-07-01",
		StartTime:      "09:00",
		EndTime:        "13:00",
		ParticipantIDs: []string{"u2"},
	}}

	filtered := ExcludeConfirmed(results, confirmed, 3)
	assert.LessOrEqual(t, len(filtered), len(results))
	for _, r := range filtered {
		assert.GreaterOrEqual(t, r.UserCount, 2)
		assert.NotContains(t, r.UserIDs, "u2")
	}
}

func TestTopDatesRollup(t *testing.T) {
	sels := []Selection{
		// 07-01: hour 9 with 2 users, hour 10 with 3 users.
		hourly("u1", "A", "2025-07-01", "09:00", "11:00"),
		hourly("u2", "B", "2025-07-01", "09:00", "11:00"),
		hourly("u3", "C", "2025-07-01", "10:00", "11:00"),
		// 07-02: single slot with 2 users.
		hourly("u1", "A", "2025-07-02", "14:00", "15:00"),
		hourly("u2", "B", "2025-07-02", "14:00", "15:00"),
	}

	groups := TopDates(Calculate(sels, 3), 10)
	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, "2025-07-01", first.Date)
	assert.Equal(t, 3, first.MaxUserCount)
	assert.True(t, first.FullOverlap)
	assert.Equal(t, 100.0, first.Score)
	require.Len(t, first.Slots, 2)
	// Within a date: largest slot first, then by hour.
	assert.Equal(t, 10, first.Slots[0].Hour)
	assert.Equal(t, 9, first.Slots[1].Hour)

	second := groups[1]
	assert.Equal(t, "2025-07-02", second.Date)
	assert.Equal(t, 2, second.MaxUserCount)
	assert.False(t, second.FullOverlap)
}

func TestTopDatesLimit(t *testing.T) {
	var sels []Selection
	dates := []string{"2025-07-01", "2025-07-02", "2025-07-03"}
	for _, d := range dates {
		sels = append(sels,
			hourly("u1", "A", d, "09:00", "10:00"),
			hourly("u2", "B", d, "09:00", "10:00"),
		)
	}

	groups := TopDates(Calculate(sels, 2), 2)
	assert.Len(t, groups, 2)

	all := TopDates(Calculate(sels, 2), 0)
	assert.Len(t, all, 3)
}

func TestForSlotMissing(t *testing.T) {
	_, ok := ForSlot(nil, "2025-07-01", 10)
	assert.False(t, ok)
}
