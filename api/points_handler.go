package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type applyPointsRequest struct {
	MovieID int64 `json:"movie_id" binding:"required"`
}

// applyPoints runs the award engine for the caller's rating of a movie
func (s *Server) applyPoints(c *gin.Context) {
	var req applyPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id is required"})
		return
	}

	user := callerID(c)
	result, err := s.points.ApplyPoints(c.Request.Context(), user, user, req.MovieID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// getPointsHistory returns the caller's recent balance mutations
func (s *Server) getPointsHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := s.points.GetHistory(c.Request.Context(), callerID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
