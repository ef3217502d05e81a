// Package wizard implements the multi-step dialogue used by the admin to
// author the ad: photo, then text, then any number of link buttons.
package wizard

import (
	"errors"
	"strings"
	"time"

	"autoaccept/internal/ads"
	"autoaccept/internal/models"
)

// State is the step a session is waiting on
type State int

const (
	AwaitingPhoto State = iota + 1
	AwaitingText
	AwaitingButton
	AwaitingMoreButtons
)

func (s State) String() string {
	switch s {
	case AwaitingPhoto:
		return "awaiting_photo"
	case AwaitingText:
		return "awaiting_text"
	case AwaitingButton:
		return "awaiting_button"
	case AwaitingMoreButtons:
		return "awaiting_more_buttons"
	default:
		return "unknown"
	}
}

// Wizard sub-commands, without the leading slash
const (
	CommandSkip   = "skip"
	CommandDone   = "done"
	CommandCancel = "cancel"
)

// IsCommand reports whether cmd is routed to an active session
func IsCommand(cmd string) bool {
	switch cmd {
	case CommandSkip, CommandDone, CommandCancel:
		return true
	}
	return false
}

var (
	ErrPhotoExpected  = errors.New("photo expected")
	ErrTextExpected   = errors.New("text expected")
	ErrButtonExpected = errors.New("button expected")
	ErrButtonFormat   = errors.New("button must look like: Label | URL")
	ErrButtonLabel    = errors.New("button label is empty")
	ErrButtonURL      = errors.New("button URL has an unsupported prefix")
)

// Draft is the ad being assembled
type Draft struct {
	PhotoFileID string
	Text        string
	Buttons     []models.AdButton
}

// Ad converts the draft to the value committed by the ad service
func (d Draft) Ad() ads.Ad {
	buttons := make([]models.AdButton, len(d.Buttons))
	copy(buttons, d.Buttons)
	return ads.Ad{PhotoFileID: d.PhotoFileID, Text: d.Text, Buttons: buttons}
}

// Session is one admin's in-progress wizard
type Session struct {
	ID         string
	AdminID    int64
	State      State
	Draft      Draft
	StartedAt  time.Time
	LastActive time.Time
}

// Input is a single admin message as seen by the wizard
type Input struct {
	Command     string // without slash, empty for plain messages
	Text        string
	PhotoFileID string
}

// Outcome tells the caller what to do after a step
type Outcome int

const (
	// Advanced means the session moved to a new state
	Advanced Outcome = iota + 1
	// ButtonAdded means a button was appended and more may follow
	ButtonAdded
	// Rejected means the input was invalid and the state is unchanged
	Rejected
	// Commit means the draft is complete and must be persisted
	Commit
	// Cancelled means the draft must be discarded
	Cancelled
)

// Result is the outcome of a step; Err explains a rejection
type Result struct {
	Outcome Outcome
	Err     error
}

// Apply feeds one input to the session and mutates its draft and state.
// Durable state is never touched here; the caller persists on Commit.
func (s *Session) Apply(in Input, policy ads.URLPolicy) Result {
	if in.Command == CommandCancel {
		return Result{Outcome: Cancelled}
	}

	switch s.State {
	case AwaitingPhoto:
		switch {
		case in.Command == CommandSkip:
			s.Draft.PhotoFileID = ""
		case in.Command == "" && in.PhotoFileID != "":
			s.Draft.PhotoFileID = in.PhotoFileID
		default:
			return Result{Outcome: Rejected, Err: ErrPhotoExpected}
		}
		s.State = AwaitingText
		return Result{Outcome: Advanced}

	case AwaitingText:
		text := strings.TrimSpace(in.Text)
		if in.Command != "" || text == "" {
			return Result{Outcome: Rejected, Err: ErrTextExpected}
		}
		s.Draft.Text = text
		s.State = AwaitingButton
		return Result{Outcome: Advanced}

	case AwaitingButton:
		if in.Command == CommandSkip {
			s.Draft.Buttons = nil
			return Result{Outcome: Commit}
		}
		return s.addButton(in, policy)

	case AwaitingMoreButtons:
		if in.Command == CommandDone {
			return Result{Outcome: Commit}
		}
		return s.addButton(in, policy)
	}

	return Result{Outcome: Rejected, Err: ErrTextExpected}
}

func (s *Session) addButton(in Input, policy ads.URLPolicy) Result {
	if in.Command != "" || in.Text == "" {
		return Result{Outcome: Rejected, Err: ErrButtonExpected}
	}

	button, err := ParseButton(in.Text, policy)
	if err != nil {
		return Result{Outcome: Rejected, Err: err}
	}

	button.Position = len(s.Draft.Buttons)
	s.Draft.Buttons = append(s.Draft.Buttons, button)
	s.State = AwaitingMoreButtons
	return Result{Outcome: ButtonAdded}
}

// ParseButton parses "Label | URL", splitting on the first separator
func ParseButton(input string, policy ads.URLPolicy) (models.AdButton, error) {
	label, url, ok := strings.Cut(input, "|")
	if !ok {
		return models.AdButton{}, ErrButtonFormat
	}

	label = strings.TrimSpace(label)
	url = strings.TrimSpace(url)

	if label == "" {
		return models.AdButton{}, ErrButtonLabel
	}
	if !policy.Allows(url) {
		return models.AdButton{}, ErrButtonURL
	}

	return models.AdButton{Label: label, URL: url}, nil
}
