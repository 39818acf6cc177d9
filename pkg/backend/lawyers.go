package backend

import (
	"context"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/models"
)

// ListLawyers returns the lawyers of the caller's firm.
func (c *Client) ListLawyers(ctx context.Context) ([]models.User, error) {
	return apiclient.Get[[]models.User](ctx, c.api, "/users/lawyers")
}

// AddLawyer creates a lawyer account under the caller's firm.
func (c *Client) AddLawyer(ctx context.Context, in models.AddLawyerRequest) (models.User, error) {
	if in.Email == "" {
		return models.User{}, apiclient.NewValidationError("email", "must not be empty")
	}
	return apiclient.Post[models.User](ctx, c.api, "/users/lawyers", in)
}

// RemoveLawyer detaches a lawyer from the caller's firm.
func (c *Client) RemoveLawyer(ctx context.Context, lawyerID string) (models.MessageResponse, error) {
	endpoint, err := path("lawyerId", "/users/lawyers/", lawyerID)
	if err != nil {
		return models.MessageResponse{}, err
	}
	return apiclient.Delete[models.MessageResponse](ctx, c.api, endpoint)
}
