package models

import (
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
)

func TestAdConfigPatch_Apply(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := &AdConfig{
		PhotoFileID: pointer.ToString("old-photo"),
		MessageText: pointer.ToString("old text"),
		UpdatedAt:   now.Add(-time.Hour),
	}

	testCases := []struct {
		name      string
		current   *AdConfig
		patch     AdConfigPatch
		wantPhoto *string
		wantText  *string
	}{
		{
			name:      "nil current with text",
			current:   nil,
			patch:     AdConfigPatch{MessageText: pointer.ToString("hi")},
			wantPhoto: nil,
			wantText:  pointer.ToString("hi"),
		},
		{
			name:      "omitted fields are kept",
			current:   current,
			patch:     AdConfigPatch{},
			wantPhoto: pointer.ToString("old-photo"),
			wantText:  pointer.ToString("old text"),
		},
		{
			name:      "photo overwritten",
			current:   current,
			patch:     AdConfigPatch{PhotoFileID: pointer.ToString("new-photo")},
			wantPhoto: pointer.ToString("new-photo"),
			wantText:  pointer.ToString("old text"),
		},
		{
			name:      "photo cleared",
			current:   current,
			patch:     AdConfigPatch{ClearPhoto: true, MessageText: pointer.ToString("new text")},
			wantPhoto: nil,
			wantText:  pointer.ToString("new text"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next := tc.patch.Apply(tc.current, now)
			assert.Equal(t, tc.wantPhoto, next.PhotoFileID)
			assert.Equal(t, tc.wantText, next.MessageText)
			assert.Equal(t, now, next.UpdatedAt)
		})
	}

	// The original config must not be mutated
	assert.Equal(t, "old-photo", *current.PhotoFileID)
}

func TestAdConfig_HasText(t *testing.T) {
	var missing *AdConfig
	assert.False(t, missing.HasText())
	assert.False(t, (&AdConfig{}).HasText())
	assert.False(t, (&AdConfig{MessageText: pointer.ToString("")}).HasText())
	assert.True(t, (&AdConfig{MessageText: pointer.ToString("x")}).HasText())
}
