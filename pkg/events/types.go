// Package events delivers user-facing notifications raised by long-running
// tasks. A notification is published at most once per terminal transition;
// sinks fan it out to logs, callbacks, or NATS subscribers.
package events

import "time"

// Notification types.
const (
	// TypeComplianceCompleted fires when a due-diligence request finishes with a result.
	TypeComplianceCompleted = "compliance.completed"
	// TypeComplianceFailed fires when a due-diligence request ends in error.
	TypeComplianceFailed = "compliance.failed"
)

// SubjectPrefix is prepended to notification types to form NATS subjects.
const SubjectPrefix = "casedesk."

// Subject returns the NATS subject a notification type is published on.
// Format: "casedesk.{type}"
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// Notification is a one-shot message about a task reaching a terminal state.
type Notification struct {
	Type      string    `json:"type"`
	TrackerID string    `json:"tracker_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
