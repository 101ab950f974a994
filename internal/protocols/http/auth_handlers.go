package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const stateCookie = "oauth_state"

// discordLogin sends the browser to the Discord consent page with a fresh
// state parameter pinned in a short-lived cookie.
func (s *Server) discordLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, s.authSvc.LoginURL(state))
}

// discordCallback completes the OAuth2 flow: the state must match the
// cookie, then the code is exchanged and the browser is sent back to the
// frontend with the session token.
func (s *Server) discordCallback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "state mismatch"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	auth, err := s.authSvc.Authenticate(c.Request.Context(), c.Query("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	redirect, err := url.Parse(s.config.Server.FrontendURL)
	if err != nil {
		c.JSON(http.StatusOK, auth)
		return
	}
	redirect.Path = "/auth/callback"
	q := redirect.Query()
	q.Set("token", auth.Token)
	redirect.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, redirect.String())
}

// currentUser returns the authenticated caller's public profile
func (s *Server) currentUser(c *gin.Context) {
	result, err := s.userSvc.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
