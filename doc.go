// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the moim API server.

moim is a group scheduling service: participants join a room via a short
share code, mark the times they are free (whole days or hour ranges), and
the server surfaces the dates and hours where the most participants overlap
until the group confirms an appointment.

# Starting the Server

The server requires a database URL via environment variable, .env file or
CLI flag:

	DATABASE_URL=moim.db go run main.go

Or with flags:

	go run main.go -p 4726 -d moim.db -t sqlite

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 4726)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - ROOM_TTL (--room-ttl): Room lifetime before expiry (default: 168h)
  - SWEEP_INTERVAL (--sweep-interval): Expiry sweep cadence (default: 1h)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - overlap: Pure availability-overlap aggregation engine
  - handlers: HTTP request handlers (rooms, selections, groups,
    confirmations, suggestions)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - roomcode: Share-code generation and validation
  - sweeper: Background removal of expired rooms
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
