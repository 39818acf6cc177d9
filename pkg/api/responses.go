package api

import (
	"github.com/lexdesk/casedesk/pkg/documents"
	"github.com/lexdesk/casedesk/pkg/models"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status             string `json:"status"`
	Version            string `json:"version"`
	BackendURL         string `json:"backend_url"`
	ComplianceSessions int    `json:"compliance_sessions"`
}

// CasesResponse is returned by GET /api/v1/cases.
type CasesResponse struct {
	User  models.User   `json:"user"`
	Cases []models.Case `json:"cases"`
}

// AnalysisResponse is returned by POST /api/v1/documents/analyze.
type AnalysisResponse struct {
	Filename string               `json:"filename"`
	Results  []documents.Analysis `json:"results"`
}
