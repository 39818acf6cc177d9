package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// loginHandler handles POST /api/v1/auth/login. The issued token is returned
// to the browser, which sends it back as a bearer token.
func (s *Server) loginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	resp, err := s.deps.Backend.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listCasesHandler handles GET /api/v1/cases for the calling user.
func (s *Server) listCasesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	me, err := s.deps.Backend.Me(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	cases, err := s.deps.Backend.ListCasesByUser(ctx, me.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CasesResponse{User: me.User, Cases: cases})
}

// listCaseNotesHandler handles GET /api/v1/cases/:id/notes.
func (s *Server) listCaseNotesHandler(c *gin.Context) {
	notes, err := s.deps.Backend.ListCaseNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}
