// Package backend provides typed wrappers over the case-management REST API.
// Each function maps one endpoint; all failures are *apiclient.Error values.
package backend

import (
	"net/url"
	"strings"

	"github.com/lexdesk/casedesk/pkg/apiclient"
)

// Client groups the resource wrappers around a request client.
type Client struct {
	api    *apiclient.Client
	tokens *apiclient.TokenStore
}

// New creates a Client. tokens may be nil when credentials come from the
// request context; when set, Login stores the issued token and Logout clears it.
func New(api *apiclient.Client, tokens *apiclient.TokenStore) *Client {
	return &Client{api: api, tokens: tokens}
}

// API returns the underlying request client.
func (c *Client) API() *apiclient.Client {
	return c.api
}

// path joins escaped segments into an endpoint. Empty segments are rejected
// before any I/O is attempted.
func path(field string, segments ...string) (string, error) {
	var sb strings.Builder
	for i, s := range segments {
		if i%2 == 1 {
			if strings.TrimSpace(s) == "" {
				return "", apiclient.NewValidationError(field, "must not be empty")
			}
			s = url.PathEscape(s)
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}
