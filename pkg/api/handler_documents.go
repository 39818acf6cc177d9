package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds a single analyzed document.
const maxUploadBytes = 32 << 20

// analyzeDocumentHandler handles POST /api/v1/documents/analyze with a
// multipart "file" field.
func (s *Server) analyzeDocumentHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "multipart field 'file' is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read uploaded file"})
		return
	}
	defer func() { _ = file.Close() }()

	results, err := s.deps.Documents.Analyze(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse{Filename: header.Filename, Results: results})
}
