package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/compliance"
)

// createComplianceSessionHandler handles POST /api/v1/compliance/sessions.
// The caller's token is kept for the session's scheduled polls and history,
// and only that token can reach the session afterwards.
func (s *Server) createComplianceSessionHandler(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	opts := []compliance.Option{
		compliance.WithClock(s.deps.Clock),
		compliance.WithPublisher(s.deps.Publisher),
		compliance.WithConfig(s.deps.Compliance),
	}
	if s.deps.Backend != nil {
		opts = append(opts, compliance.WithHistory(s.deps.Backend))
	}
	tracker := compliance.NewTracker(ctx, s.deps.DueDiligence, opts...)
	s.sessions.add(tracker, sessionOwner(c))
	s.logger.Info("Compliance session created", "session_id", tracker.ID())
	c.JSON(http.StatusCreated, tracker.Snapshot())
}

// getComplianceSessionHandler handles GET /api/v1/compliance/sessions/:id.
func (s *Server) getComplianceSessionHandler(c *gin.Context) {
	tracker, ok := s.tracker(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tracker.Snapshot())
}

// submitComplianceHandler handles POST /api/v1/compliance/sessions/:id/submit.
// Submission outcomes, including failures, are part of the returned transcript.
func (s *Server) submitComplianceHandler(c *gin.Context) {
	tracker, ok := s.tracker(c)
	if !ok {
		return
	}
	var req ComplianceSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	err := tracker.Submit(c.Request.Context(), compliance.Form{
		Scope:        req.Scope,
		Jurisdiction: req.Jurisdiction,
		Concerns:     req.Concerns,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, tracker.Snapshot())
}

// resetComplianceHandler handles POST /api/v1/compliance/sessions/:id/reset.
func (s *Server) resetComplianceHandler(c *gin.Context) {
	tracker, ok := s.tracker(c)
	if !ok {
		return
	}
	tracker.Reset()
	c.JSON(http.StatusOK, tracker.Snapshot())
}

// deleteComplianceSessionHandler handles DELETE /api/v1/compliance/sessions/:id.
func (s *Server) deleteComplianceSessionHandler(c *gin.Context) {
	tracker, ok := s.sessions.remove(c.Param("id"), sessionOwner(c))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "compliance session not found"})
		return
	}
	tracker.Close()
	s.logger.Info("Compliance session closed", "session_id", tracker.ID())
	c.Status(http.StatusNoContent)
}

// tracker looks up the caller's session. Sessions owned by another token are
// reported as not found.
func (s *Server) tracker(c *gin.Context) (*compliance.Tracker, bool) {
	tracker, ok := s.sessions.get(c.Param("id"), sessionOwner(c))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "compliance session not found"})
	}
	return tracker, ok
}

func sessionOwner(c *gin.Context) string {
	return ownerKey(apiclient.TokenFromContext(c.Request.Context()))
}
