package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getLeaderboard returns one page of the reputation ranking
func (s *Server) getLeaderboard(c *gin.Context) {
	page := intQuery(c, "page", 1)
	size := intQuery(c, "pageSize", defaultPageSize)
	if size > edgeMaxPageSize {
		size = edgeMaxPageSize
	}

	result, err := s.userSvc.GetLeaderboard(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getTopUsers returns the top of the ranking without paging metadata
func (s *Server) getTopUsers(c *gin.Context) {
	result, err := s.userSvc.GetTopUsers(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getUser returns one user's public profile
func (s *Server) getUser(c *gin.Context) {
	result, err := s.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
