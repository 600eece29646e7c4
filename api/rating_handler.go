package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reelgap/models"
)

type moviePayload struct {
	Title       string  `json:"title" binding:"required"`
	PosterURL   *string `json:"poster_url"`
	Description *string `json:"description"`
	ReleaseYear *int    `json:"release_year"`
}

type saveRatingRequest struct {
	MovieID    int64         `json:"movie_id" binding:"required"`
	PreRating  *int          `json:"pre_rating"`
	PostRating *int          `json:"post_rating"`
	Movie      *moviePayload `json:"movie"`
}

// saveRating persists a pre- or post-rating and returns the stored rating
// together with the points outcome
func (s *Server) saveRating(c *gin.Context) {
	var req saveRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var movie *models.Movie
	if req.Movie != nil {
		movie = &models.Movie{
			Title:       req.Movie.Title,
			PosterURL:   req.Movie.PosterURL,
			Description: req.Movie.Description,
			ReleaseYear: req.Movie.ReleaseYear,
		}
	}

	user := callerID(c)
	result, err := s.ratings.SaveRating(c.Request.Context(), user, user, req.MovieID, req.PreRating, req.PostRating, movie)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rating": result.Rating,
		"points": result.Points,
	})
}

// getRating returns the caller's rating for one movie
func (s *Server) getRating(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movieID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	user := callerID(c)
	rating, err := s.ratings.GetRating(c.Request.Context(), user, user, movieID)
	if err != nil {
		respondError(c, err)
		return
	}
	if rating == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// listPending returns the caller's movies still waiting on a post-rating
func (s *Server) listPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	user := callerID(c)
	pending, err := s.ratings.ListPending(c.Request.Context(), user, user, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pending})
}
