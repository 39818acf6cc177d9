package backend

import (
	"context"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/models"
)

// ListCaseCommits returns the change history of a case, newest first.
func (c *Client) ListCaseCommits(ctx context.Context, caseID string) ([]models.CaseCommit, error) {
	endpoint, err := path("caseId", "/case-commits/case/", caseID)
	if err != nil {
		return nil, err
	}
	return apiclient.Get[[]models.CaseCommit](ctx, c.api, endpoint)
}

// CreateCaseCommit records a snapshot of a case.
func (c *Client) CreateCaseCommit(ctx context.Context, caseID string, in models.CaseCommitInput) (models.CaseCommit, error) {
	endpoint, err := path("caseId", "/case-commits/case/", caseID)
	if err != nil {
		return models.CaseCommit{}, err
	}
	return apiclient.Post[models.CaseCommit](ctx, c.api, endpoint, in)
}

// RevertCaseCommit restores a case to the state captured by commitID.
func (c *Client) RevertCaseCommit(ctx context.Context, caseID, commitID string) (models.Case, error) {
	endpoint, err := path("caseId", "/case-commits/revert/", caseID)
	if err != nil {
		return models.Case{}, err
	}
	endpoint, err = path("commitId", endpoint+"/", commitID)
	if err != nil {
		return models.Case{}, err
	}
	return apiclient.Post[models.Case](ctx, c.api, endpoint, nil)
}
