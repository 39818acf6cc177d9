package api

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ComplianceSubmitRequest is the body of POST /api/v1/compliance/sessions/:id/submit.
type ComplianceSubmitRequest struct {
	Scope        string `json:"scope"`
	Jurisdiction string `json:"jurisdiction"`
	Concerns     string `json:"concerns"`
}
