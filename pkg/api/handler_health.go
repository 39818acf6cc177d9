package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexdesk/casedesk/pkg/version"
)

// healthHandler handles GET /health. External services are not probed so an
// upstream outage does not restart the dashboard.
func (s *Server) healthHandler(c *gin.Context) {
	resp := HealthResponse{
		Status:             "healthy",
		Version:            version.Full(),
		ComplianceSessions: s.sessions.len(),
	}
	if s.deps.Backend != nil {
		resp.BackendURL = s.deps.Backend.API().BaseURL()
	}
	c.JSON(http.StatusOK, resp)
}
