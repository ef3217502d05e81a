// Package ads manages the promotional message shown to newly approved members.
package ads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlekSi/pointer"

	"autoaccept/internal/models"
	"autoaccept/internal/storage"
)

// DefaultURLPrefixes is the allow-list used when none is configured
var DefaultURLPrefixes = []string{"http://", "https://", "t.me/"}

// URLPolicy is an allow-list of URL prefixes accepted for ad buttons
type URLPolicy struct {
	prefixes []string
}

// NewURLPolicy builds a policy; an empty list falls back to DefaultURLPrefixes
func NewURLPolicy(prefixes []string) URLPolicy {
	var cleaned []string
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultURLPrefixes...)
	}
	return URLPolicy{prefixes: cleaned}
}

// Allows reports whether url starts with one of the accepted prefixes
func (p URLPolicy) Allows(url string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// Prefixes returns the accepted prefixes
func (p URLPolicy) Prefixes() []string {
	out := make([]string, len(p.prefixes))
	copy(out, p.prefixes)
	return out
}

// Ad is a fully loaded advertisement
type Ad struct {
	PhotoFileID string
	Text        string
	Buttons     []models.AdButton
	UpdatedAt   time.Time
}

// HasPhoto reports whether the ad carries a photo
func (a *Ad) HasPhoto() bool {
	return a.PhotoFileID != ""
}

// Service reads and writes the ad through the storage layer
type Service struct {
	db storage.Storage
}

// NewService creates a new ad service
func NewService(db storage.Storage) *Service {
	return &Service{db: db}
}

// Current returns the configured ad, or nil when no ad text is set
func (s *Service) Current(ctx context.Context) (*Ad, error) {
	config, err := s.db.GetAdConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ad config: %w", err)
	}
	if !config.HasText() {
		return nil, nil
	}

	buttons, err := s.db.GetAdButtons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ad buttons: %w", err)
	}

	return &Ad{
		PhotoFileID: pointer.GetString(config.PhotoFileID),
		Text:        *config.MessageText,
		Buttons:     buttons,
		UpdatedAt:   config.UpdatedAt,
	}, nil
}

// Commit stores the ad, replacing the previous config and every button
func (s *Service) Commit(ctx context.Context, ad Ad) error {
	patch := models.AdConfigPatch{MessageText: pointer.ToString(ad.Text)}
	if ad.HasPhoto() {
		patch.PhotoFileID = pointer.ToString(ad.PhotoFileID)
	} else {
		patch.ClearPhoto = true
	}

	buttons := make([]models.AdButton, len(ad.Buttons))
	for i, button := range ad.Buttons {
		buttons[i] = models.AdButton{Label: button.Label, URL: button.URL, Position: i}
	}

	if err := s.db.SaveAd(ctx, patch, buttons); err != nil {
		return fmt.Errorf("failed to save ad: %w", err)
	}
	return nil
}

// Clear removes the ad and its buttons
func (s *Service) Clear(ctx context.Context) error {
	if err := s.db.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear ad: %w", err)
	}
	return nil
}
