// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/moimlab/moim/cliparse"
	"github.com/moimlab/moim/handlers"
	"github.com/moimlab/moim/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(db, cfg)
	selectionHandler := handlers.NewSelectionHandler(db, cfg)
	groupHandler := handlers.NewGroupHandler(db, cfg)
	confirmationHandler := handlers.NewConfirmationHandler(db, cfg)
	suggestionHandler := handlers.NewSuggestionHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Rooms and roster
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms/{code}", middleware.WithLogging(roomHandler.GetRoom))
	mux.HandleFunc("POST /rooms/{code}/users", middleware.WithLogging(roomHandler.JoinRoom))
	mux.HandleFunc("PUT /rooms/{code}/users/{userID}", middleware.WithLogging(roomHandler.UpdateUser))
	mux.HandleFunc("DELETE /rooms/{code}/users/{userID}", middleware.WithLogging(roomHandler.DeleteUser))

	// Availability selections
	mux.HandleFunc("PUT /rooms/{code}/selections", middleware.WithLogging(selectionHandler.SaveSelections))
	mux.HandleFunc("GET /rooms/{code}/selections", middleware.WithLogging(selectionHandler.ListSelections))

	// Groups
	mux.HandleFunc("POST /rooms/{code}/groups", middleware.WithLogging(groupHandler.CreateGroup))
	mux.HandleFunc("GET /rooms/{code}/groups", middleware.WithLogging(groupHandler.ListGroups))
	mux.HandleFunc("DELETE /rooms/{code}/groups/{name}", middleware.WithLogging(groupHandler.DeleteGroup))

	// Confirmed appointments
	mux.HandleFunc("POST /rooms/{code}/confirmations", middleware.WithLogging(confirmationHandler.CreateConfirmation))
	mux.HandleFunc("GET /rooms/{code}/confirmations", middleware.WithLogging(confirmationHandler.ListConfirmations))
	mux.HandleFunc("DELETE /rooms/{code}/confirmations/{id}", middleware.WithLogging(confirmationHandler.DeleteConfirmation))

	// Overlap aggregation
	mux.HandleFunc("GET /rooms/{code}/suggestions", middleware.WithLogging(suggestionHandler.GetSuggestions))
	mux.HandleFunc("GET /rooms/{code}/overlaps", middleware.WithLogging(suggestionHandler.GetDayOverlaps))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("moim API v1"))
	})

	return mux
}
