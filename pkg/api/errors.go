package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexdesk/casedesk/pkg/apiclient"
)

// statusFor maps a request client error to the HTTP status returned to the
// browser.
func statusFor(err *apiclient.Error) int {
	switch err.Kind {
	case apiclient.KindValidation:
		return http.StatusBadRequest
	case apiclient.KindProtocol:
		if err.Status >= 400 && err.Status < 600 {
			return err.Status
		}
		return http.StatusBadGateway
	case apiclient.KindTimeout:
		return http.StatusGatewayTimeout
	case apiclient.KindDomain:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// respondError writes {"error": message} for err.
func respondError(c *gin.Context, err error) {
	apiErr := apiclient.AsError(err)
	status := statusFor(apiErr)
	if status >= http.StatusInternalServerError {
		slog.Warn("Upstream call failed",
			"path", c.FullPath(),
			"kind", apiErr.Kind,
			"status", status,
			"error", apiErr.Message)
	}
	c.JSON(status, ErrorResponse{Error: apiErr.Message, Kind: string(apiErr.Kind)})
}
