package models

import "time"

// AdConfig is the singleton advertisement configuration
type AdConfig struct {
	PhotoFileID *string
	MessageText *string
	UpdatedAt   time.Time
}

// HasText reports whether the config carries a non-empty message.
// A config without text means no ad is configured.
func (c *AdConfig) HasText() bool {
	return c != nil && c.MessageText != nil && *c.MessageText != ""
}

// HasPhoto reports whether the config carries a photo reference
func (c *AdConfig) HasPhoto() bool {
	return c != nil && c.PhotoFileID != nil && *c.PhotoFileID != ""
}

// AdConfigPatch describes a partial update of AdConfig.
// Nil fields are left unchanged; ClearPhoto removes the stored photo.
type AdConfigPatch struct {
	PhotoFileID *string
	ClearPhoto  bool
	MessageText *string
}

// Apply returns the config that results from applying the patch to current.
// current may be nil when no config exists yet.
func (p AdConfigPatch) Apply(current *AdConfig, now time.Time) AdConfig {
	var next AdConfig
	if current != nil {
		next = *current
	}

	switch {
	case p.ClearPhoto:
		next.PhotoFileID = nil
	case p.PhotoFileID != nil:
		photo := *p.PhotoFileID
		next.PhotoFileID = &photo
	}

	if p.MessageText != nil {
		text := *p.MessageText
		next.MessageText = &text
	}

	next.UpdatedAt = now
	return next
}

// AdButton is a link button attached to the ad
type AdButton struct {
	ID       int64
	Label    string
	URL      string
	Position int
}

// JoinEvent records an approved join request
type JoinEvent struct {
	ID        int64
	UserID    int64
	Username  string
	FirstName string
	ChatID    int64
	ChatTitle string
	CreatedAt time.Time
}

// ClickEvent records a press on a tracked ad button
type ClickEvent struct {
	ID        int64
	UserID    int64
	Username  string
	CreatedAt time.Time
}

// Stats holds aggregate counters over the event logs
type Stats struct {
	TotalJoins   int64
	RecentJoins  int64
	TotalClicks  int64
	RecentClicks int64
	UniqueGroups int64
}
