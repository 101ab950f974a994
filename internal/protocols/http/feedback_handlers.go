package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agora/pkg/models"
)

// Edge defaults for list pagination. The core re-clamps independently, so
// these only shape what unadorned requests get.
const (
	defaultPageSize = 10
	edgeMaxPageSize = 20
)

// listFeedback returns one page of feedback items
func (s *Server) listFeedback(c *gin.Context) {
	page := intQuery(c, "page", 1)
	size := intQuery(c, "pageSize", defaultPageSize)
	if size > edgeMaxPageSize {
		size = edgeMaxPageSize
	}

	result, err := s.feedbackSvc.List(c.Request.Context(), page, size, c.Query("sort"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// createFeedback creates a feedback item; authorship comes from the
// bearer token when one is present, never from the request body.
func (s *Server) createFeedback(c *gin.Context) {
	var req models.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.feedbackSvc.Create(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// getFeedback returns a single feedback item
func (s *Server) getFeedback(c *gin.Context) {
	result, err := s.feedbackSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// updateFeedback overwrites a feedback item; only the author or an admin
// may do this
func (s *Server) updateFeedback(c *gin.Context) {
	var req models.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.feedbackSvc.Update(c.Request.Context(), c.Param("id"), req, GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// deleteFeedback removes a feedback item and its comments
func (s *Server) deleteFeedback(c *gin.Context) {
	if err := s.feedbackSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveFeedback marks a feedback item archived
func (s *Server) archiveFeedback(c *gin.Context) {
	result, err := s.feedbackSvc.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// reopenFeedback clears the archived flag
func (s *Server) reopenFeedback(c *gin.Context) {
	result, err := s.feedbackSvc.Reopen(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// voteFeedback applies a vote direction to a feedback item
func (s *Server) voteFeedback(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.feedbackSvc.Vote(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// listCategories returns the category lookup list
func (s *Server) listCategories(c *gin.Context) {
	result, err := s.feedbackSvc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// intQuery parses a positive integer query parameter with a fallback
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
