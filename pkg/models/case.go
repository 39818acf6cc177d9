package models

import "time"

// Case is a legal matter tracked by the backend.
type Case struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	CaseNumber  string     `json:"caseNumber,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	CaseType    string     `json:"caseType,omitempty"`
	Court       string     `json:"court,omitempty"`
	ClientName  string     `json:"clientName,omitempty"`
	Opponent    string     `json:"opponent,omitempty"`
	FilingDate  *time.Time `json:"filingDate,omitempty"`
	NextHearing *time.Time `json:"nextHearing,omitempty"`
	UserID      string     `json:"user,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
}

// CaseInput contains the writable fields of a Case for POST /cases and PUT /cases/:id
type CaseInput struct {
	Title       string     `json:"title,omitempty"`
	CaseNumber  string     `json:"caseNumber,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	CaseType    string     `json:"caseType,omitempty"`
	Court       string     `json:"court,omitempty"`
	ClientName  string     `json:"clientName,omitempty"`
	Opponent    string     `json:"opponent,omitempty"`
	FilingDate  *time.Time `json:"filingDate,omitempty"`
	NextHearing *time.Time `json:"nextHearing,omitempty"`
}

// CaseNote is a free-text note attached to a case.
type CaseNote struct {
	ID        string    `json:"_id"`
	CaseID    string    `json:"caseId"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CaseNoteInput contains the writable fields of a CaseNote
type CaseNoteInput struct {
	Content string `json:"content"`
}

// CaseCommit is a snapshot of a case's fields, used for history and revert.
type CaseCommit struct {
	ID        string         `json:"_id"`
	CaseID    string         `json:"caseId"`
	Message   string         `json:"message"`
	Snapshot  map[string]any `json:"snapshot,omitempty"`
	Author    string         `json:"author,omitempty"`
	CreatedAt time.Time      `json:"createdAt,omitempty"`
}

// CaseCommitInput contains fields for POST /case-commits/case/:caseId
type CaseCommitInput struct {
	Message  string         `json:"message"`
	Snapshot map[string]any `json:"snapshot,omitempty"`
}
