// Package compliance tracks one due-diligence request from submission to a
// terminal outcome and keeps the chat transcript that renders its progress.
package compliance

import (
	"strings"
	"time"

	"github.com/lexdesk/casedesk/pkg/duediligence"
	"github.com/lexdesk/casedesk/pkg/models"
)

// State is the tracker lifecycle state.
type State string

// Tracker states. StatePolling is internal and reported as StateProcessing.
const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateProcessing State = "processing"
	StatePolling    State = "polling"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// Terminal reports whether the state ends a submission.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateError
}

// Busy reports whether a submission is in flight.
func (s State) Busy() bool {
	return s == StateSubmitting || s == StateProcessing || s == StatePolling
}

// external hides the in-flight poll guard from callers.
func (s State) external() State {
	if s == StatePolling {
		return StateProcessing
	}
	return s
}

// Form is the user's due-diligence request.
type Form struct {
	Scope        string `json:"scope" validate:"required"`
	Jurisdiction string `json:"jurisdiction" validate:"required"`
	Concerns     string `json:"concerns" validate:"required"`
}

func (f Form) normalized() Form {
	return Form{
		Scope:        strings.TrimSpace(f.Scope),
		Jurisdiction: strings.TrimSpace(f.Jurisdiction),
		Concerns:     strings.TrimSpace(f.Concerns),
	}
}

func (f Form) request() duediligence.Request {
	return duediligence.Request{
		Scope:         f.Scope,
		Jurisdictions: f.Jurisdiction,
		Concerns:      f.Concerns,
	}
}

// MessageStatus mirrors the status of the request a bot message belongs to.
type MessageStatus string

// Message statuses.
const (
	MessageProcessing MessageStatus = "processing"
	MessageCompleted  MessageStatus = "completed"
	MessageError      MessageStatus = "error"
)

// Message is one chat turn in the compliance transcript.
type Message struct {
	ID        string          `json:"id"`
	Type      models.ChatRole `json:"type"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Status    MessageStatus   `json:"status,omitempty"`
	Request   *Form           `json:"request,omitempty"`
}

func (m Message) history() models.ChatHistoryMessage {
	return models.ChatHistoryMessage{
		ID:        m.ID,
		Type:      m.Type,
		Content:   m.Content,
		Status:    string(m.Status),
		Timestamp: m.Timestamp,
	}
}

// Snapshot is a point-in-time copy of a tracker for rendering.
type Snapshot struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	RequestID string    `json:"request_id,omitempty"`
	Polling   bool      `json:"polling"`
	Messages  []Message `json:"messages"`
}
