package stats

import (
	"context"
	"fmt"
	"time"

	"autoaccept/internal/models"
	"autoaccept/internal/storage"
)

// AllTimeDays is the window used for "all time" reports
const AllTimeDays = 365 * 100

// Report is a statistics snapshot for a trailing window
type Report struct {
	models.Stats
	WindowDays  int
	GeneratedAt time.Time
}

// ClickRate returns recent clicks per recent join, or 0 without joins
func (r Report) ClickRate() float64 {
	if r.RecentJoins == 0 {
		return 0
	}
	return float64(r.RecentClicks) / float64(r.RecentJoins)
}

// IsAllTime reports whether the report covers the whole history
func (r Report) IsAllTime() bool {
	return r.WindowDays >= AllTimeDays
}

// Service computes windowed statistics from the event logs
type Service struct {
	db  storage.Storage
	now func() time.Time
}

// NewService creates a new statistics service
func NewService(db storage.Storage) *Service {
	return &Service{db: db, now: time.Now}
}

// Get returns counters where "recent" means the last windowDays days.
// Negative windows are treated as zero and windows beyond AllTimeDays as
// all time, so the start date never overflows.
func (s *Service) Get(ctx context.Context, windowDays int) (Report, error) {
	switch {
	case windowDays < 0:
		windowDays = 0
	case windowDays > AllTimeDays:
		windowDays = AllTimeDays
	}

	now := s.now()
	since := now.AddDate(0, 0, -windowDays)

	counts, err := s.db.GetStats(ctx, since)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get stats for %d days: %w", windowDays, err)
	}

	return Report{Stats: counts, WindowDays: windowDays, GeneratedAt: now}, nil
}
