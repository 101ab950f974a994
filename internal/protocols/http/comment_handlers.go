package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agora/pkg/models"
)

// listComments returns the comment thread for a feedback item
func (s *Server) listComments(c *gin.Context) {
	result, err := s.commentSvc.ListByFeedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// addComment appends a comment authored by the authenticated caller
func (s *Server) addComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.commentSvc.Add(c.Request.Context(), c.Param("id"), req, GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// voteComment applies a vote direction to a comment under a feedback item
func (s *Server) voteComment(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.commentSvc.Vote(c.Request.Context(), c.Param("id"), c.Param("comment_id"), req.Direction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
