// Copyright (c) 2026 Jiho Seo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sweeper removes rooms past their expiry, together with their
// roster, selections, groups and confirmations.
package sweeper

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

type Sweeper struct {
	db        *sql.DB
	scheduler *gocron.Scheduler
	interval  time.Duration
}

func New(db *sql.DB, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:        db,
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
	}
}

// Start runs one sweep immediately and then repeats on the configured
// interval in the background.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(func() {
		removed, err := s.Sweep()
		if err != nil {
			slog.Error("room sweep failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("expired rooms removed", "count", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep deletes every room whose expires_at is in the past and returns how
// many rooms went away. Dependent rows are removed explicitly inside one
// transaction; sqlite does not enforce ON DELETE CASCADE unless foreign keys
// are switched on per connection.
func (s *Sweeper) Sweep() (int64, error) {
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin sweep transaction: %w", err)
	}
	defer tx.Rollback()

	dependents := []string{"room_user", "room_group", "time_selection", "confirmation"}
	for _, table := range dependents {
		query := fmt.Sprintf(`
			DELETE FROM %s
			WHERE room_id IN (SELECT id FROM room WHERE expires_at < $1)
		`, table)
		if _, err := tx.Exec(query, now); err != nil {
			return 0, fmt.Errorf("failed to sweep %s: %w", table, err)
		}
	}

	result, err := tx.Exec(`DELETE FROM room WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep rooms: %w", err)
	}
	removed, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sweep: %w", err)
	}

	return removed, nil
}
