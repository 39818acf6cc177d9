package apiclient

import (
	"context"
	"sync"
)

// CredentialProvider supplies the bearer token attached to outgoing requests.
// An empty token means the request is sent unauthenticated.
type CredentialProvider interface {
	Token(ctx context.Context) string
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token(context.Context) string {
	return string(t)
}

// TokenStore holds the token of the current session in memory.
// It is safe for concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a store seeded with token (may be empty).
func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

// Token returns the stored token.
func (s *TokenStore) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear drops the stored token (logout or invalid session).
func (s *TokenStore) Clear() {
	s.Set("")
}

type tokenContextKey struct{}

// WithToken returns a context carrying a bearer token for ContextToken.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the token stored by WithToken, or "".
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// ContextToken reads the token from the request context, falling back to
// Fallback when the context carries none. Used when one client serves
// many users, each request forwarding its own caller's token.
type ContextToken struct {
	Fallback CredentialProvider
}

// Token returns the context token or the fallback's token.
func (p ContextToken) Token(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != "" {
		return token
	}
	if p.Fallback != nil {
		return p.Fallback.Token(ctx)
	}
	return ""
}
