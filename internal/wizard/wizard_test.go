package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoaccept/internal/ads"
	"autoaccept/internal/models"
)

var policy = ads.NewURLPolicy(nil)

func newSession() *Session {
	return &Session{AdminID: 1, State: AwaitingPhoto}
}

func TestSession_SkipPhotoTextButtonDone(t *testing.T) {
	s := newSession()

	res := s.Apply(Input{Command: CommandSkip}, policy)
	assert.Equal(t, Advanced, res.Outcome)
	assert.Equal(t, AwaitingText, s.State)

	res = s.Apply(Input{Text: "Sponsor message"}, policy)
	assert.Equal(t, Advanced, res.Outcome)
	assert.Equal(t, AwaitingButton, s.State)

	res = s.Apply(Input{Text: "Ad | https://example.com"}, policy)
	assert.Equal(t, ButtonAdded, res.Outcome)
	assert.Equal(t, AwaitingMoreButtons, s.State)

	res = s.Apply(Input{Command: CommandDone}, policy)
	assert.Equal(t, Commit, res.Outcome)

	ad := s.Draft.Ad()
	assert.Equal(t, "Sponsor message", ad.Text)
	assert.False(t, ad.HasPhoto())
	assert.Equal(t, []models.AdButton{{Label: "Ad", URL: "https://example.com", Position: 0}}, ad.Buttons)
}

func TestSession_PhotoStep(t *testing.T) {
	s := newSession()

	res := s.Apply(Input{Text: "not a photo"}, policy)
	assert.Equal(t, Rejected, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrPhotoExpected)
	assert.Equal(t, AwaitingPhoto, s.State)

	res = s.Apply(Input{Command: CommandDone}, policy)
	assert.Equal(t, Rejected, res.Outcome)

	res = s.Apply(Input{PhotoFileID: "file-1"}, policy)
	assert.Equal(t, Advanced, res.Outcome)
	assert.Equal(t, "file-1", s.Draft.PhotoFileID)
	assert.Equal(t, AwaitingText, s.State)
}

func TestSession_TextStep(t *testing.T) {
	s := &Session{State: AwaitingText}

	res := s.Apply(Input{Text: "   "}, policy)
	assert.ErrorIs(t, res.Err, ErrTextExpected)

	res = s.Apply(Input{Command: CommandSkip}, policy)
	assert.ErrorIs(t, res.Err, ErrTextExpected, "text cannot be skipped")

	res = s.Apply(Input{PhotoFileID: "file"}, policy)
	assert.ErrorIs(t, res.Err, ErrTextExpected)
	assert.Equal(t, AwaitingText, s.State)

	res = s.Apply(Input{Text: "  Hello  "}, policy)
	assert.Equal(t, Advanced, res.Outcome)
	assert.Equal(t, "Hello", s.Draft.Text)
}

func TestSession_SkipButtonsCommitsEmptyList(t *testing.T) {
	s := &Session{State: AwaitingButton, Draft: Draft{Text: "x"}}

	res := s.Apply(Input{Command: CommandDone}, policy)
	assert.Equal(t, Rejected, res.Outcome, "done needs at least one button, skip is the way out")

	res = s.Apply(Input{Command: CommandSkip}, policy)
	assert.Equal(t, Commit, res.Outcome)
	assert.Empty(t, s.Draft.Ad().Buttons)
}

func TestSession_InvalidButtonsKeepState(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		err   error
	}{
		{name: "no separator", input: "Ad https://example.com", err: ErrButtonFormat},
		{name: "empty label", input: " | https://example.com", err: ErrButtonLabel},
		{name: "bad prefix", input: "Ad | ftp://example.com", err: ErrButtonURL},
		{name: "no scheme", input: "Ad | example.com", err: ErrButtonURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, state := range []State{AwaitingButton, AwaitingMoreButtons} {
				s := &Session{State: state}
				res := s.Apply(Input{Text: tc.input}, policy)
				assert.Equal(t, Rejected, res.Outcome)
				assert.ErrorIs(t, res.Err, tc.err)
				assert.Equal(t, state, s.State)
				assert.Empty(t, s.Draft.Buttons)
			}
		})
	}
}

func TestSession_ButtonsKeepEntryOrder(t *testing.T) {
	s := &Session{State: AwaitingButton}

	inputs := []string{
		"First | https://1.example",
		"Second | http://2.example",
		"Third | t.me/third",
	}
	for _, input := range inputs {
		res := s.Apply(Input{Text: input}, policy)
		require.Equal(t, ButtonAdded, res.Outcome, input)
	}

	require.Len(t, s.Draft.Buttons, 3)
	assert.Equal(t, "First", s.Draft.Buttons[0].Label)
	assert.Equal(t, "Second", s.Draft.Buttons[1].Label)
	assert.Equal(t, "Third", s.Draft.Buttons[2].Label)
	assert.Equal(t, 2, s.Draft.Buttons[2].Position)
}

func TestSession_CancelFromAnyState(t *testing.T) {
	for _, state := range []State{AwaitingPhoto, AwaitingText, AwaitingButton, AwaitingMoreButtons} {
		s := &Session{State: state}
		res := s.Apply(Input{Command: CommandCancel}, policy)
		assert.Equal(t, Cancelled, res.Outcome, state.String())
	}
}

func TestParseButton(t *testing.T) {
	button, err := ParseButton("Visit us | https://example.com/a|b", policy)
	require.NoError(t, err)
	assert.Equal(t, "Visit us", button.Label)
	assert.Equal(t, "https://example.com/a|b", button.URL, "only the first separator splits")
}

func TestDraft_AdCopiesButtons(t *testing.T) {
	d := Draft{Text: "x", Buttons: []models.AdButton{{Label: "A", URL: "https://a"}}}
	ad := d.Ad()
	ad.Buttons[0].Label = "changed"
	assert.Equal(t, "A", d.Buttons[0].Label)
}
