package backend

import (
	"context"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/models"
)

// ListCaseNotes returns the notes of a case.
func (c *Client) ListCaseNotes(ctx context.Context, caseID string) ([]models.CaseNote, error) {
	endpoint, err := path("caseId", "/case-notes/", caseID)
	if err != nil {
		return nil, err
	}
	return apiclient.Get[[]models.CaseNote](ctx, c.api, endpoint)
}

// CreateCaseNote adds a note to a case.
func (c *Client) CreateCaseNote(ctx context.Context, caseID, content string) (models.CaseNote, error) {
	endpoint, err := path("caseId", "/case-notes/", caseID)
	if err != nil {
		return models.CaseNote{}, err
	}
	return apiclient.Post[models.CaseNote](ctx, c.api, endpoint, models.CaseNoteInput{Content: content})
}

// UpdateCaseNote replaces the content of a note.
func (c *Client) UpdateCaseNote(ctx context.Context, noteID, content string) (models.CaseNote, error) {
	endpoint, err := path("noteId", "/case-notes/note/", noteID)
	if err != nil {
		return models.CaseNote{}, err
	}
	return apiclient.Put[models.CaseNote](ctx, c.api, endpoint, models.CaseNoteInput{Content: content})
}

// DeleteCaseNote removes a note.
func (c *Client) DeleteCaseNote(ctx context.Context, noteID string) (models.MessageResponse, error) {
	endpoint, err := path("noteId", "/case-notes/note/", noteID)
	if err != nil {
		return models.MessageResponse{}, err
	}
	return apiclient.Delete[models.MessageResponse](ctx, c.api, endpoint)
}
