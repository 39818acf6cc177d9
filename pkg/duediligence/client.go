// Package duediligence is the client for the due-diligence compliance
// analysis service. Jobs are submitted once and then polled by id.
package duediligence

import (
	"context"
	"net/url"
	"strings"

	"github.com/lexdesk/casedesk/pkg/apiclient"
)

// Status is the lifecycle state of a submitted request.
type Status string

// Request statuses reported by the service.
const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further polling is needed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Request is the body of POST /due-diligence.
type Request struct {
	Scope         string `json:"scope"`
	Jurisdictions string `json:"jurisdictions"`
	Concerns      string `json:"concerns"`
}

// SubmitResponse is returned by POST /due-diligence.
type SubmitResponse struct {
	RequestID         string `json:"request_id"`
	GuardrailViolated bool   `json:"guardrail_violated,omitempty"`
	Error             string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /due-diligence/:id.
type StatusResponse struct {
	RequestID         string `json:"request_id"`
	Status            Status `json:"status"`
	Result            string `json:"result,omitempty"`
	GuardrailViolated bool   `json:"guardrail_violated,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Client talks to the due-diligence service.
type Client struct {
	api *apiclient.Client
}

// NewClient wraps a request client pointed at the due-diligence host.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Submit starts a job. A 2xx response may still carry a guardrail violation;
// the caller must check GuardrailViolated.
func (c *Client) Submit(ctx context.Context, req Request) (SubmitResponse, error) {
	return apiclient.Post[SubmitResponse](ctx, c.api, "/due-diligence", req)
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, requestID string) (StatusResponse, error) {
	if strings.TrimSpace(requestID) == "" {
		return StatusResponse{}, apiclient.NewValidationError("request_id", "must not be empty")
	}
	return apiclient.Get[StatusResponse](ctx, c.api, "/due-diligence/"+url.PathEscape(requestID))
}
