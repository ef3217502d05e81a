package storage

import (
	"context"
	"time"

	"autoaccept/internal/models"
)

// Storage defines the interface for data storage operations
type Storage interface {
	// Ad configuration operations

	// GetAdConfig returns the singleton config, or nil if none was ever saved
	GetAdConfig(ctx context.Context) (*models.AdConfig, error)
	// GetAdButtons returns buttons ordered by position, ties broken by insertion order
	GetAdButtons(ctx context.Context) ([]models.AdButton, error)
	SetAdConfig(ctx context.Context, patch models.AdConfigPatch) error
	// ReplaceAdButtons deletes all buttons and inserts the given list with position = index
	ReplaceAdButtons(ctx context.Context, buttons []models.AdButton) error
	// SaveAd applies the patch and replaces the buttons in a single transaction
	SaveAd(ctx context.Context, patch models.AdConfigPatch, buttons []models.AdButton) error
	ClearAdButtons(ctx context.Context) error
	// ClearAll removes both the buttons and the config
	ClearAll(ctx context.Context) error

	// Event log operations
	RecordJoin(ctx context.Context, event models.JoinEvent) error
	RecordClick(ctx context.Context, event models.ClickEvent) error

	// Statistics operations

	// GetStats counts events; Recent* only include events created at or after since
	GetStats(ctx context.Context, since time.Time) (models.Stats, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
