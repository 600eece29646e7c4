package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// tmdbSearch proxies movie search
func (s *Server) tmdbSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	resp, err := s.tmdb.SearchMovies(c.Request.Context(), query, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) tmdbMovieID(c *gin.Context) (int64, bool) {
	movieID, err := strconv.ParseInt(c.Param("movieID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return 0, false
	}
	return movieID, true
}

// tmdbMovie proxies the movie detail lookup
func (s *Server) tmdbMovie(c *gin.Context) {
	movieID, ok := s.tmdbMovieID(c)
	if !ok {
		return
	}

	detail, err := s.tmdb.GetMovie(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// tmdbVideos proxies the trailers listing
func (s *Server) tmdbVideos(c *gin.Context) {
	movieID, ok := s.tmdbMovieID(c)
	if !ok {
		return
	}

	videos, err := s.tmdb.GetVideos(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, videos)
}

// tmdbProviders proxies the watch providers lookup, filtered to one region
func (s *Server) tmdbProviders(c *gin.Context) {
	movieID, ok := s.tmdbMovieID(c)
	if !ok {
		return
	}
	region := c.DefaultQuery("region", s.cfg.ProviderRegion)

	providers, err := s.tmdb.GetProviders(c.Request.Context(), movieID, region)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, providers)
}

// tmdbCredits proxies the cast and crew lookup
func (s *Server) tmdbCredits(c *gin.Context) {
	movieID, ok := s.tmdbMovieID(c)
	if !ok {
		return
	}

	credits, err := s.tmdb.GetCredits(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, credits)
}
