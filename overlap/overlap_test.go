// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(userID, name, date, start, end string) Selection {
	return Selection{
		UserID:    userID,
		UserName:  name,
		UserColor: "#007AFF",
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

func allDay(userID, name, date string) Selection {
	return Selection{
		UserID:    userID,
		UserName:  name,
		UserColor: "#FF3B30",
		Date:      date,
		AllDay:    true,
	}
}

func TestCalculateEmptyInput(t *testing.T) {
	assert.Empty(t, Calculate(nil, 5))
	assert.Empty(t, Calculate([]Selection{}, 5))
	assert.Empty(t, Calculate([]Selection{hourly("u1", "A", "2025-06-01", "09:00", "10:00")}, 0))
}

func TestCalculateNegativeTotalUsersPanics(t *testing.T) {
	assert.Panics(t, func() {
		Calculate([]Selection{hourly("u1", "A", "2025-06-01", "09:00", "10:00")}, -1)
	})
}

func TestHourExpansion(t *testing.T) {
	// 14:00-16:00 contributes hours 14 and 15, never 16.
	sels := []Selection{
		hourly("u1", "A", "2025-06-01", "14:00", "16:00"),
		hourly("u2", "B", "2025-06-01", "14:00", "16:00"),
	}

	results := Calculate(sels, 2)
	require.Len(t, results, 2)

	hours := []int{results[0].Hour, results[1].Hour}
	assert.ElementsMatch(t, []int{14, 15}, hours)
	for _, r := range results {
		assert.Equal(t, KindHourly, r.Kind)
		assert.Equal(t, 2, r.UserCount)
	}
}

func TestSinglePersonSlotsDropped(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-06-01", "09:00", "12:00"),
		hourly("u2", "B", "2025-06-01", "11:00", "13:00"),
	}

	results := Calculate(sels, 2)
	require.Len(t, results, 1)
	assert.Equal(t, 11, results[0].Hour)
	assert.Equal(t, []string{"u1", "u2"}, results[0].UserIDs)
}

func TestAllDayOnlyCollapsesToOneResult(t *testing.T) {
	sels := []Selection{
		allDay("u1", "A", "2025-06-01"),
		allDay("u2", "B", "2025-06-01"),
	}

	results := Calculate(sels, 2)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, KindAllDay, r.Kind)
	assert.Equal(t, 0, r.Hour)
	assert.Equal(t, "2025-06-01", r.Date)
	assert.Equal(t, 2, r.UserCount)
	assert.True(t, r.FullOverlap)
	assert.Equal(t, 100.0, r.Score)
}

func TestSingleAllDayUserProducesNothing(t *testing.T) {
	results := Calculate([]Selection{allDay("u1", "A", "2025-06-01")}, 3)
	assert.Empty(t, results)
}

func TestAllDayMergesIntoHourlySlots(t *testing.T) {
	// A is free all day, B marks only hour 10. Hour 10 includes both; hour 9
	// has only A and produces no result.
	sels := []Selection{
		allDay("uA", "A", "2025-06-02"),
		hourly("uB", "B", "2025-06-02", "10:00", "11:00"),
	}

	results := Calculate(sels, 2)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, KindHourly, r.Kind)
	assert.Equal(t, 10, r.Hour)
	assert.Equal(t, []string{"uA", "uB"}, r.UserIDs)
	assert.True(t, r.FullOverlap)
}

func TestThreeUserScenario(t *testing.T) {
	// user1 all day, user2 09:00-11:00, user3 10:00-11:00, totalUsers=3.
	sels := []Selection{
		allDay("user1", "One", "2025-07-01"),
		hourly("user2", "Two", "2025-07-01", "09:00", "11:00"),
		hourly("user3", "Three", "2025-07-01", "10:00", "11:00"),
	}

	results := Calculate(sels, 3)
	require.Len(t, results, 2)

	hour10, ok := ForSlot(results, "2025-07-01", 10)
	require.True(t, ok)
	assert.Equal(t, 3, hour10.UserCount)
	assert.True(t, hour10.FullOverlap)
	assert.Equal(t, 100.0, hour10.Score) // 100 + 10 bonus, capped

	hour9, ok := ForSlot(results, "2025-07-01", 9)
	require.True(t, ok)
	assert.Equal(t, []string{"user1", "user2"}, hour9.UserIDs)
	assert.False(t, hour9.FullOverlap)
	assert.InDelta(t, 200.0/3.0, hour9.Score, 1e-9)

	// Full overlap outranks the partial slot.
	assert.Equal(t, 10, results[0].Hour)
	assert.Equal(t, 9, results[1].Hour)
}

func TestMalformedSelectionsSkipped(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-06-01", "09:00", ""),     // missing end
		hourly("u2", "B", "2025-06-01", "", "10:00"),     // missing start
		hourly("u3", "C", "2025-06-01", "xx:00", "10:00"), // unparsable
		hourly("u4", "D", "2025-06-01", "09:00", "10:00"),
		hourly("u5", "E", "2025-06-01", "09:00", "10:00"),
	}

	results := Calculate(sels, 5)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"u4", "u5"}, results[0].UserIDs)
}

func TestDuplicateUserCountedOnce(t *testing.T) {
	// The same user saved two selections covering hour 9; another saved one.
	sels := []Selection{
		hourly("u1", "A", "2025-06-01", "09:00", "10:00"),
		hourly("u1", "A", "2025-06-01", "09:00", "11:00"),
		hourly("u2", "B", "2025-06-01", "09:00", "10:00"),
	}

	results := Calculate(sels, 2)
	r, ok := ForSlot(results, "2025-06-01", 9)
	require.True(t, ok)
	assert.Equal(t, 2, r.UserCount)
}

func TestScoreBounds(t *testing.T) {
	sels := []Selection{
		hourly("u1", "A", "2025-06-01", "09:00", "10:00"),
		hourly("u2", "B", "2025-06-01", "09:00", "10:00"),
		allDay("u3", "C", "2025-06-02"),
		allDay("u4", "D", "2025-06-02"),
	}

	for _, total := range []int{2, 3, 10} {
		for _, r := range Calculate(sels, total) {
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 100.0)
			assert.GreaterOrEqual(t, r.UserCount, 2)
			assert.Equal(t, r.UserCount == total, r.FullOverlap)
		}
	}
}

func TestFullOverlapBonusOrdering(t *testing.T) {
	// Two of two users on 06-01 (full, bonus) versus three of four on 06-02.
	sels := []Selection{
		hourly("u1", "A", "2025-06-01", "09:00", "10:00"),
		hourly("u2", "B", "2025-06-01", "09:00", "10:00"),
	}
	results := Calculate(sels, 2)
	require.Len(t, results, 1)
	assert.Equal(t, 100.0, results[0].Score)

	partial := Calculate([]Selection{
		hourly("u1", "A", "2025-06-02", "09:00", "10:00"),
		hourly("u2", "B", "2025-06-02", "09:00", "10:00"),
		hourly("u3", "C", "2025-06-02", "09:00", "10:00"),
	}, 4)
	require.Len(t, partial, 1)
	assert.Equal(t, 75.0, partial[0].Score)
	assert.False(t, partial[0].FullOverlap)
}

func TestDeterministicOutput(t *testing.T) {
	sels := []Selection{
		allDay("u1", "A", "2025-07-01"),
		hourly("u2", "B", "2025-07-01", "09:00", "12:00"),
		hourly("u3", "C", "2025-07-01", "10:00", "14:00"),
		allDay("u2", "B", "2025-07-02"),
		allDay("u3", "C", "2025-07-02"),
	}

	first := Calculate(sels, 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Calculate(sels, 3))
	}
}

func TestMultipleDatesSortedByScore(t *testing.T) {
	sels := []Selection{
		// 2 of 3 users on 07-01.
		hourly("u1", "A", "2025-07-01", "09:00", "10:00"),
		hourly("u2", "B", "2025-07-01", "09:00", "10:00"),
		// 3 of 3 users on 07-02.
		hourly("u1", "A", "2025-07-02", "14:00", "15:00"),
		hourly("u2", "B", "2025-07-02", "14:00", "15:00"),
		hourly("u3", "C", "2025-07-02", "14:00", "15:00"),
	}

	results := Calculate(sels, 3)
	require.Len(t, results, 2)
	assert.Equal(t, "2025-07-02", results[0].Date)
	assert.Equal(t, "2025-07-01", results[1].Date)
}

func TestFormatHour(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "00:00"},
		{9, "09:00"},
		{14, "14:00"},
		{23, "23:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHour(tt.hour))
	}
}

func TestParseHourFormats(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 9, true},
		{"09:00:00", 9, true},
		{"23:00", 23, true},
		{"24:00", 24, true},
		{"", 0, false},
		{"ab:00", 0, false},
		{"25:00", 0, false},
		{"-1:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, ok := parseHour(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, h)
			}
		})
	}
}
