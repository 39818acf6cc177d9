// Package models contains request/response models for the case-management backend.
package models

// User is an account on the backend. Firm accounts own lawyer accounts.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"` // "lawyer", "firm" or "admin"
	FirmID   string `json:"firm,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Verified bool   `json:"isVerified,omitempty"`
}

// LoginRequest contains credentials for POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /users/login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest contains fields for POST /users/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// MeResponse is returned by GET /users/me
type MeResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// AddLawyerRequest contains fields for adding a lawyer to the caller's firm
type AddLawyerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// MessageResponse is the generic {message} acknowledgement used by delete endpoints.
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}
