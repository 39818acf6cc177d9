package backend

import (
	"context"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/models"
)

const complianceHistoryEndpoint = "/chat-history/compliance"

// GetAssistanceHistory returns the assistant chat transcript of a case.
func (c *Client) GetAssistanceHistory(ctx context.Context, caseID string) (models.ChatHistory, error) {
	endpoint, err := path("caseId", "/chat-history/assistance/", caseID)
	if err != nil {
		return models.ChatHistory{}, err
	}
	return apiclient.Get[models.ChatHistory](ctx, c.api, endpoint)
}

// SaveAssistanceMessages appends messages to the assistant transcript of a case.
func (c *Client) SaveAssistanceMessages(ctx context.Context, caseID string, messages []models.ChatHistoryMessage) (models.ChatHistory, error) {
	endpoint, err := path("caseId", "/chat-history/assistance/", caseID)
	if err != nil {
		return models.ChatHistory{}, err
	}
	return apiclient.Post[models.ChatHistory](ctx, c.api, endpoint, models.SaveChatHistoryRequest{Messages: messages})
}

// GetComplianceHistory returns the caller's compliance chat transcript.
func (c *Client) GetComplianceHistory(ctx context.Context) (models.ChatHistory, error) {
	return apiclient.Get[models.ChatHistory](ctx, c.api, complianceHistoryEndpoint)
}

// SaveComplianceMessages appends messages to the caller's compliance transcript.
func (c *Client) SaveComplianceMessages(ctx context.Context, messages []models.ChatHistoryMessage) (models.ChatHistory, error) {
	return apiclient.Post[models.ChatHistory](ctx, c.api, complianceHistoryEndpoint, models.SaveChatHistoryRequest{Messages: messages})
}
