package backend

import (
	"context"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/models"
)

// ListCasesByUser returns the cases owned by userID.
func (c *Client) ListCasesByUser(ctx context.Context, userID string) ([]models.Case, error) {
	endpoint, err := path("userId", "/cases/user/", userID)
	if err != nil {
		return nil, err
	}
	return apiclient.Get[[]models.Case](ctx, c.api, endpoint)
}

// GetCase returns a single case.
func (c *Client) GetCase(ctx context.Context, caseID string) (models.Case, error) {
	endpoint, err := path("caseId", "/cases/", caseID)
	if err != nil {
		return models.Case{}, err
	}
	return apiclient.Get[models.Case](ctx, c.api, endpoint)
}

// CreateCase creates a case owned by the current user.
func (c *Client) CreateCase(ctx context.Context, in models.CaseInput) (models.Case, error) {
	if in.Title == "" {
		return models.Case{}, apiclient.NewValidationError("title", "must not be empty")
	}
	return apiclient.Post[models.Case](ctx, c.api, "/cases", in)
}

// UpdateCase replaces the writable fields of a case.
func (c *Client) UpdateCase(ctx context.Context, caseID string, in models.CaseInput) (models.Case, error) {
	endpoint, err := path("caseId", "/cases/", caseID)
	if err != nil {
		return models.Case{}, err
	}
	return apiclient.Put[models.Case](ctx, c.api, endpoint, in)
}

// DeleteCase removes a case.
func (c *Client) DeleteCase(ctx context.Context, caseID string) (models.MessageResponse, error) {
	endpoint, err := path("caseId", "/cases/", caseID)
	if err != nil {
		return models.MessageResponse{}, err
	}
	return apiclient.Delete[models.MessageResponse](ctx, c.api, endpoint)
}
