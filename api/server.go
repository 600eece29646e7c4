package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"reelgap/config"
	"reelgap/service"
	"reelgap/tmdb"
)

// Server holds the HTTP layer's dependencies
type Server struct {
	cfg       *config.Config
	profiles  service.ProfileService
	ratings   service.RatingService
	points    service.PointsService
	discovery service.DiscoveryService
	tmdb      tmdb.Client
	lbCache   *LeaderboardCache
}

// NewServer creates the HTTP server wiring. cache may be nil when redis is
// not configured.
func NewServer(
	cfg *config.Config,
	profiles service.ProfileService,
	ratings service.RatingService,
	points service.PointsService,
	discovery service.DiscoveryService,
	tmdbClient tmdb.Client,
	cache *redis.Client,
) *Server {
	return &Server{
		cfg:       cfg,
		profiles:  profiles,
		ratings:   ratings,
		points:    points,
		discovery: discovery,
		tmdb:      tmdbClient,
		lbCache:   NewLeaderboardCache(cache),
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authed := api.Group("")
	authed.Use(AuthMiddleware(s.cfg.JWTSecret))

	authed.POST("/points/apply", s.applyPoints)

	authed.PUT("/ratings", s.saveRating)
	authed.GET("/ratings/:movieID", s.getRating)

	authed.GET("/me", s.getMe)
	authed.POST("/me/username", s.setUsername)
	authed.GET("/me/pending", s.listPending)
	authed.GET("/me/history", s.getPointsHistory)

	// Public reads
	api.GET("/leaderboard", s.getLeaderboard)
	api.GET("/discover", s.discover)
	api.GET("/ranking", s.ranking)
	api.GET("/movies/:movieID/gap", s.movieGap)

	api.GET("/tmdb/search", s.tmdbSearch)
	api.GET("/tmdb/movie/:movieID", s.tmdbMovie)
	api.GET("/tmdb/movie/:movieID/videos", s.tmdbVideos)
	api.GET("/tmdb/movie/:movieID/providers", s.tmdbProviders)
	api.GET("/tmdb/movie/:movieID/credits", s.tmdbCredits)

	return router
}
