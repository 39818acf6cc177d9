package backend

import (
	"context"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/models"
)

// Login authenticates against POST /users/login and, when a token store is
// configured, keeps the issued token for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	if email == "" {
		return models.LoginResponse{}, apiclient.NewValidationError("email", "must not be empty")
	}
	if password == "" {
		return models.LoginResponse{}, apiclient.NewValidationError("password", "must not be empty")
	}
	resp, err := apiclient.Post[models.LoginResponse](ctx, c.api, "/users/login", models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return resp, err
	}
	if resp.Token == "" {
		return resp, apiclient.NewDomainError("login response did not include a token", 0)
	}
	if c.tokens != nil {
		c.tokens.Set(resp.Token)
	}
	return resp, nil
}

// Logout forgets the stored session token.
func (c *Client) Logout() {
	if c.tokens != nil {
		c.tokens.Clear()
	}
}

// Register creates an account via POST /users/register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.LoginResponse, error) {
	return apiclient.Post[models.LoginResponse](ctx, c.api, "/users/register", req)
}

// Me returns the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (models.MeResponse, error) {
	return apiclient.Get[models.MeResponse](ctx, c.api, "/users/me")
}
