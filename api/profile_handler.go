package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// getMe returns the caller's profile, creating it on first touch
func (s *Server) getMe(c *gin.Context) {
	profile, err := s.profiles.GetOrCreateProfile(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type setUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// setUsername completes onboarding for the caller
func (s *Server) setUsername(c *gin.Context) {
	var req setUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user := callerID(c)
	if err := s.profiles.SetUsername(c.Request.Context(), user, user, req.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}

// getLeaderboard returns the ranked profile listing, served from redis when
// a fresh copy is cached
func (s *Server) getLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	ctx := c.Request.Context()

	if cached := s.lbCache.Get(ctx, limit); cached != nil {
		c.JSON(http.StatusOK, gin.H{"leaderboard": cached})
		return
	}

	entries, err := s.profiles.Leaderboard(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	s.lbCache.Set(ctx, limit, entries)
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
