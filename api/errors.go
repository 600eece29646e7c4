package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"reelgap/service"
	"reelgap/tmdb"
)

// respondError maps service errors onto HTTP statuses. Anything unmapped is
// a storage or infrastructure failure the client may retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIdentityMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed for this user"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, service.ErrRatingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
	case errors.Is(err, service.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
	case errors.Is(err, service.ErrNoMovies):
		c.JSON(http.StatusNotFound, gin.H{"error": "no movies with completed ratings yet"})
	case errors.Is(err, tmdb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRatingImmutable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "retryable": true})
	}
}
