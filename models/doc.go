// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response and domain types for the Moim
API.

# Domain Types

The room vocabulary maps directly onto storage rows:

  - Room: a coordination session identified by a 6-character code, with an
    expiry after which the sweeper removes it
  - RoomUser: a participant with display name, color and group tags
  - RoomGroup: a named tag participants can carry (e.g. "vocals", "team 1")
  - TimeSelection: one availability claim for one date, either all-day or an
    hour range
  - Confirmation: a finalized appointment locking in a date/time and a
    participant subset

# Conventions

Dates are civil "YYYY-MM-DD" strings, times are "HH:MM" on hour boundaries
with the end exclusive. Optional columns surface as pointer fields.
Suggestion responses translate the internal slot kind into display strings
("HH:00" pairs, or AllDayLabel for all-day-only results) at this boundary.
*/
package models
