// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the moim API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Rooms and roster:

	POST   /rooms                     - Create room
	GET    /rooms/{code}              - Room with roster
	POST   /rooms/{code}/users        - Join (or rejoin) room
	PUT    /rooms/{code}/users/{id}   - Update profile
	DELETE /rooms/{code}/users/{id}   - Leave room

Availability:

	PUT /rooms/{code}/selections - Replace one user's marks for one date
	GET /rooms/{code}/selections - List marks (?date=, ?user_id=)

Groups:

	POST   /rooms/{code}/groups        - Create group
	GET    /rooms/{code}/groups        - List groups
	DELETE /rooms/{code}/groups/{name} - Delete group

Confirmations:

	POST   /rooms/{code}/confirmations      - Confirm appointment
	GET    /rooms/{code}/confirmations      - List confirmations
	DELETE /rooms/{code}/confirmations/{id} - Undo confirmation

Overlap aggregation:

	GET /rooms/{code}/suggestions - Ranked dates (?group=, ?limit=)
	GET /rooms/{code}/overlaps    - Per-hour strip for one date (?date=)

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(db, cfg)
	selectionHandler := handlers.NewSelectionHandler(db, cfg)
	suggestionHandler := handlers.NewSuggestionHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
