// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the Moim API.

# Schema Overview

Five tables, all keyed by TEXT IDs:

  - room: coordination sessions with unique 6-character codes and an expiry
  - room_user: participants, unique per (room_id, user_id), with JSON tags
  - room_group: named participant tags, unique per (room_id, name)
  - time_selection: availability claims, one row per all-day mark or hour
    range
  - confirmation: finalized appointments with a JSON participant list

# Usage

Call CreateSchema once at startup:

	if err := db.CreateSchema(dbConn); err != nil {
		// handle error
	}

The DDL uses IF NOT EXISTS throughout and avoids database-specific defaults,
so it runs unchanged against sqlite and postgres. Deleting a room cascades
to its participants, groups, selections and confirmations where the driver
enforces foreign keys; the sweeper also deletes dependents explicitly so
expiry works even when it does not.
*/
package db
