// Package documents is the client for the document analysis pipeline:
// files are uploaded to one host, then each stored link is processed by another.
package documents

import (
	"context"
	"fmt"
	"io"

	"github.com/lexdesk/casedesk/pkg/apiclient"
)

// UploadField is the multipart field name the upload host expects.
const UploadField = "files"

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	Links []string `json:"links"`
}

// Statutes groups the statutory references found in a document.
type Statutes struct {
	Acts     []string `json:"acts"`
	Sections []string `json:"sections"`
	Articles []string `json:"articles"`
}

// ProcessedData is the structured analysis of one document.
type ProcessedData struct {
	Citations  []string `json:"citations"`
	Facts      []string `json:"facts"`
	Statutes   Statutes `json:"statutes"`
	Precedents []string `json:"precedents"`
	Ratio      string   `json:"ratio"`
	Rulings    []string `json:"rulings"`
}

// ProcessResponse is returned by the processing endpoint.
type ProcessResponse struct {
	ProcessedData ProcessedData `json:"processed_data"`
}

type processRequest struct {
	S3Link string `json:"s3_link"`
}

// Analysis pairs a stored document link with its processed data.
type Analysis struct {
	Link string        `json:"link"`
	Data ProcessedData `json:"processed_data"`
}

// Client talks to the upload and processing hosts.
type Client struct {
	upload      *apiclient.Client
	process     *apiclient.Client
	uploadPath  string
	processPath string
}

// NewClient creates a pipeline client. uploadPath and processPath are the
// endpoints on the respective hosts.
func NewClient(upload, process *apiclient.Client, uploadPath, processPath string) *Client {
	return &Client{
		upload:      upload,
		process:     process,
		uploadPath:  uploadPath,
		processPath: processPath,
	}
}

// Upload stores a document and returns the links it was saved under.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (UploadResponse, error) {
	if filename == "" {
		return UploadResponse{}, apiclient.NewValidationError("filename", "must not be empty")
	}
	form := apiclient.NewForm().AddFile(UploadField, filename, r)
	return apiclient.PostForm[UploadResponse](ctx, c.upload, c.uploadPath, form)
}

// Process runs the analysis on one stored document.
func (c *Client) Process(ctx context.Context, s3Link string) (ProcessResponse, error) {
	if s3Link == "" {
		return ProcessResponse{}, apiclient.NewValidationError("s3_link", "must not be empty")
	}
	return apiclient.Post[ProcessResponse](ctx, c.process, c.processPath, processRequest{S3Link: s3Link})
}

// Analyze uploads a document and processes every returned link in order.
// The first failure stops the pipeline.
func (c *Client) Analyze(ctx context.Context, filename string, r io.Reader) ([]Analysis, error) {
	uploaded, err := c.Upload(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	if len(uploaded.Links) == 0 {
		return nil, apiclient.NewDomainError(fmt.Sprintf("upload of %s returned no links", filename), 0)
	}

	results := make([]Analysis, 0, len(uploaded.Links))
	for _, link := range uploaded.Links {
		processed, err := c.Process(ctx, link)
		if err != nil {
			return results, err
		}
		results = append(results, Analysis{Link: link, Data: processed.ProcessedData})
	}
	return results, nil
}
