// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package overlap computes where participants' availability coincides.

Given every user's time selections for a room (whole-day marks or hour
ranges) and the participant count, Calculate produces a ranked list of
date/hour slots where two or more users are free:

	results := overlap.Calculate(selections, totalUsers)

Each result carries the de-duplicated user set, a full-overlap flag
(everyone is available) and a score in [0, 100]:

	score = min(100, userCount/totalUsers*100 + 10 if full overlap)

The bonus lets a smaller full-overlap slot outrank a larger partial one in
nearby cases.

# Composition

Group filtering and confirmed-appointment exclusion are layered on top of
Calculate rather than built into it. Callers restrict the selections and the
totalUsers denominator before calling; ExcludeConfirmed is a pure post-pass
that strips already-booked participants and re-applies the two-user
threshold. TopDates rolls results up per date for the suggestions view.

The package is pure: no I/O, no shared state, safe for concurrent calls.
*/
package overlap
