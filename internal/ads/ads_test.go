package ads

import (
	"context"
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoaccept/internal/models"
	"autoaccept/internal/storage/stubs"
)

func TestURLPolicy_Allows(t *testing.T) {
	policy := NewURLPolicy(nil)

	assert.True(t, policy.Allows("https://example.com"))
	assert.True(t, policy.Allows("http://example.com/path"))
	assert.True(t, policy.Allows("t.me/somechannel"))
	assert.False(t, policy.Allows("ftp://example.com"))
	assert.False(t, policy.Allows("example.com"))
	assert.False(t, policy.Allows("HTTPS://example.com"), "prefixes are case sensitive")
	assert.False(t, policy.Allows(""))
}

func TestURLPolicy_Custom(t *testing.T) {
	policy := NewURLPolicy([]string{" https:// ", "", "tg://"})

	assert.Equal(t, []string{"https://", "tg://"}, policy.Prefixes())
	assert.True(t, policy.Allows("tg://resolve?domain=x"))
	assert.False(t, policy.Allows("http://example.com"))
}

func TestService_CurrentWithoutAd(t *testing.T) {
	db := stubs.NewMockDB()
	service := NewService(db)
	ctx := context.Background()

	ad, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, ad)

	// A config with a photo but no text is still "no ad"
	require.NoError(t, db.SetAdConfig(ctx, models.AdConfigPatch{PhotoFileID: pointer.ToString("photo")}))
	ad, err = service.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, ad)
}

func TestService_CommitReplacesButtons(t *testing.T) {
	db := stubs.NewMockDB()
	service := NewService(db)
	ctx := context.Background()

	first := Ad{
		PhotoFileID: "photo-1",
		Text:        "First",
		Buttons: []models.AdButton{
			{Label: "A", URL: "https://a.example"},
			{Label: "B", URL: "https://b.example"},
		},
	}
	require.NoError(t, service.Commit(ctx, first))

	second := Ad{
		Text:    "Second",
		Buttons: []models.AdButton{{Label: "C", URL: "https://c.example"}},
	}
	require.NoError(t, service.Commit(ctx, second))

	ad, err := service.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, "Second", ad.Text)
	assert.False(t, ad.HasPhoto(), "committing without a photo clears the old one")
	require.Len(t, ad.Buttons, 1)
	assert.Equal(t, "C", ad.Buttons[0].Label)
}

func TestService_Clear(t *testing.T) {
	db := stubs.NewMockDB()
	service := NewService(db)
	ctx := context.Background()

	require.NoError(t, service.Commit(ctx, Ad{Text: "Hello"}))
	require.NoError(t, service.Clear(ctx))

	ad, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, ad)
}
