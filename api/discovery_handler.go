package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reelgap/models"
)

// discover returns one surprise pick from the expectation gap ranking
func (s *Server) discover(c *gin.Context) {
	mode := models.DiscoverMode(c.DefaultQuery("mode", string(models.DiscoverModeUnderrated)))
	top, _ := strconv.Atoi(c.DefaultQuery("top", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	pick, err := s.discovery.Discover(c.Request.Context(), mode, top, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pick)
}

// ranking returns the sorted expectation gap listing
func (s *Server) ranking(c *gin.Context) {
	mode := models.DiscoverMode(c.DefaultQuery("mode", string(models.DiscoverModeUnderrated)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	rows, err := s.discovery.Ranking(c.Request.Context(), mode, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ranking": rows})
}

// movieGap returns the aggregate gap for one movie
func (s *Server) movieGap(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movieID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	gap, err := s.discovery.MovieGap(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err)
		return
	}
	if gap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed ratings for this movie"})
		return
	}

	c.JSON(http.StatusOK, gap)
}
