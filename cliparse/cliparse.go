package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	RoomTTL       time.Duration
	SweepInterval time.Duration
}

const (
	defaultPort          = 4726
	defaultRoomTTL       = 7 * 24 * time.Hour
	defaultSweepInterval = time.Hour
)

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var roomTTL, sweepInterval string

	fs := flag.NewFlagSet("moim", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&roomTTL, "room-ttl", "", "Room lifetime before expiry (e.g. 168h)")
	fs.StringVar(&sweepInterval, "sweep-interval", "", "How often expired rooms are removed")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	var err error
	cfg.RoomTTL, err = parseDuration(roomTTL, "ROOM_TTL", defaultRoomTTL)
	if err != nil {
		return Config{}, err
	}

	cfg.SweepInterval, err = parseDuration(sweepInterval, "SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseDuration(flagValue, envName string, fallback time.Duration) (time.Duration, error) {
	raw := flagValue
	if raw == "" {
		raw = os.Getenv(envName)
	}
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration %q: %w", envName, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", envName, d)
	}
	return d, nil
}
