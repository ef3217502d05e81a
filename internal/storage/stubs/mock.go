package stubs

import (
	"context"
	"sort"
	"sync"
	"time"

	"autoaccept/internal/models"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu      sync.RWMutex
	config  *models.AdConfig
	buttons []models.AdButton
	joins   []models.JoinEvent
	clicks  []models.ClickEvent
	nextID  int64
	now     func() time.Time

	// Err, when set, is returned by every write operation
	Err error
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{now: time.Now}
}

// Initialize does nothing for mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// GetAdConfig returns a copy of the stored config
func (m *MockDB) GetAdConfig(ctx context.Context) (*models.AdConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil, nil
	}
	config := *m.config
	return &config, nil
}

// GetAdButtons returns buttons sorted by position, then by id
func (m *MockDB) GetAdButtons(ctx context.Context) ([]models.AdButton, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buttons := make([]models.AdButton, len(m.buttons))
	copy(buttons, m.buttons)
	sort.SliceStable(buttons, func(i, j int) bool {
		if buttons[i].Position != buttons[j].Position {
			return buttons[i].Position < buttons[j].Position
		}
		return buttons[i].ID < buttons[j].ID
	})
	return buttons, nil
}

// SetAdConfig applies the patch to the stored config
func (m *MockDB) SetAdConfig(ctx context.Context, patch models.AdConfigPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.setAdConfig(patch)
	return nil
}

// ReplaceAdButtons swaps the button list
func (m *MockDB) ReplaceAdButtons(ctx context.Context, buttons []models.AdButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.replaceAdButtons(buttons)
	return nil
}

// SaveAd applies the patch and replaces the buttons
func (m *MockDB) SaveAd(ctx context.Context, patch models.AdConfigPatch, buttons []models.AdButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.setAdConfig(patch)
	m.replaceAdButtons(buttons)
	return nil
}

// ClearAdButtons removes all buttons
func (m *MockDB) ClearAdButtons(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.buttons = nil
	return nil
}

// ClearAll removes the buttons and the config
func (m *MockDB) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.buttons = nil
	m.config = nil
	return nil
}

// RecordJoin appends a join event
func (m *MockDB) RecordJoin(ctx context.Context, event models.JoinEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	event.ID = m.nextID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = m.now()
	}
	m.joins = append(m.joins, event)
	return nil
}

// RecordClick appends a click event
func (m *MockDB) RecordClick(ctx context.Context, event models.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	event.ID = m.nextID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = m.now()
	}
	m.clicks = append(m.clicks, event)
	return nil
}

// Joins returns a copy of the recorded join events
func (m *MockDB) Joins() []models.JoinEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	joins := make([]models.JoinEvent, len(m.joins))
	copy(joins, m.joins)
	return joins
}

// Clicks returns a copy of the recorded click events
func (m *MockDB) Clicks() []models.ClickEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clicks := make([]models.ClickEvent, len(m.clicks))
	copy(clicks, m.clicks)
	return clicks
}

// GetStats counts events, recent ones starting at since
func (m *MockDB) GetStats(ctx context.Context, since time.Time) (models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats models.Stats
	groups := make(map[int64]struct{})

	for _, join := range m.joins {
		stats.TotalJoins++
		if !join.CreatedAt.Before(since) {
			stats.RecentJoins++
		}
		groups[join.ChatID] = struct{}{}
	}

	for _, click := range m.clicks {
		stats.TotalClicks++
		if !click.CreatedAt.Before(since) {
			stats.RecentClicks++
		}
	}

	stats.UniqueGroups = int64(len(groups))
	return stats, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

func (m *MockDB) setAdConfig(patch models.AdConfigPatch) {
	next := patch.Apply(m.config, m.now())
	m.config = &next
}

func (m *MockDB) replaceAdButtons(buttons []models.AdButton) {
	m.buttons = make([]models.AdButton, 0, len(buttons))
	for i, button := range buttons {
		m.nextID++
		m.buttons = append(m.buttons, models.AdButton{
			ID:       m.nextID,
			Label:    button.Label,
			URL:      button.URL,
			Position: i,
		})
	}
}
