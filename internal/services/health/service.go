package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service reports whether the API can reach its backing store.
type Service struct {
	DB *sql.DB
}

// NewService constructs a health service; db may be nil in memory mode.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status is the health payload.
type Status struct {
	OK      bool   `json:"ok"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

// Check pings the database when one is configured.
func (s *Service) Check(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Storage: "memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Status{OK: false, Storage: "postgres", Error: "database unreachable"}
	}
	return Status{OK: true, Storage: "postgres"}
}
