// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the moim API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - RoomHandler: Room lifecycle and the participant roster
  - SelectionHandler: Availability marks (all-day or hour slots)
  - GroupHandler: Named participant groups within a room
  - ConfirmationHandler: Confirmed appointments
  - SuggestionHandler: Overlap aggregation endpoints

Handlers are created via constructor functions that accept *sql.DB and Config:

	roomHandler := handlers.NewRoomHandler(db, cfg)

# Room Flow

Rooms are addressed by a 6-character share code and expire automatically:

	POST /rooms                     → CreateRoom (returns the code)
	GET  /rooms/{code}              → GetRoom (room + roster)
	POST /rooms/{code}/users        → JoinRoom (rejoin refreshes profile)
	PUT  /rooms/{code}/users/{id}   → UpdateUser
	DELETE /rooms/{code}/users/{id} → DeleteUser

# Availability and Suggestions

Each participant replaces their own availability per date; the suggestion
endpoints aggregate everyone's marks through the overlap package:

	PUT /rooms/{code}/selections   → SaveSelections (replace one user+date)
	GET /rooms/{code}/selections   → ListSelections
	GET /rooms/{code}/suggestions  → GetSuggestions (ranked dates)
	GET /rooms/{code}/overlaps     → GetDayOverlaps (per-hour strip)

Suggestions accept ?group= to restrict both the counted selections and the
denominator to participants carrying that group tag. Participants of a
confirmed appointment are excluded from suggestions at the covered slots.

# Validation

Input limits match the clients: names up to 50 characters, group names up to
20, locations up to 100, memos up to 500, colors as #RRGGBB, dates as
YYYY-MM-DD and slot times as HH:00 on hour boundaries.
*/
package handlers
