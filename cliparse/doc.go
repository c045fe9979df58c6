// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Precedence

CLI flags take precedence over environment variables, which take precedence
over defaults:

	moim -p 8080 -d "file:moim.db"

# Settings

Required:

  - DATABASE_URL (-d): sqlite file URL or postgres connection string

Optional:

  - PORT (-p): server port (default: 4726)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - ROOM_TTL (-room-ttl): room lifetime before expiry (default: 168h)
  - SWEEP_INTERVAL (-sweep-interval): expired-room sweep cadence (default: 1h)

Durations use Go syntax ("30m", "12h"). A .env file in the working directory
is loaded by main before parsing.
*/
package cliparse
