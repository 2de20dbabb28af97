package router

import (
	"time"

	"sozluk/internal/handlers"
	"sozluk/internal/metrics"
	"sozluk/internal/middleware"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Deps is everything the routes need. Limiter, Cache and Registry may be nil.
type Deps struct {
	DB         *gorm.DB
	Votes      *services.VoteService
	Favorites  *services.FavoriteService
	Profiles   *services.ProfileService
	Entries    *services.EntryService
	Categories *services.CategoryService
	Mementos   *services.MementoService

	Metrics  *metrics.VoteMetrics
	Registry *prometheus.Registry
	Limiter  *middleware.ClientRateLimiter
	Cache    *utils.GlobalCache
	CacheTTL time.Duration
}

// RegisterRoutes mounts the API on r. The sessions middleware must already
// be installed.
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestID())
	r.Use(middleware.LoadUser(d.DB))

	profileCache := handlers.NewProfileCache(d.Cache, d.CacheTTL)
	authHandler := handlers.NewAuthHandler(d.DB)
	voteHandler := handlers.NewVoteHandler(d.Votes, profileCache)
	entryHandler := handlers.NewEntryHandler(d.Entries, d.Favorites, profileCache)
	categoryHandler := handlers.NewCategoryHandler(d.Categories)
	userHandler := handlers.NewUserHandler(d.Profiles, d.Mementos, profileCache)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		deny := func() { d.Metrics.ObserveRejected("rate_limited") }
		return []gin.HandlerFunc{middleware.RateLimit(d.Limiter, deny), h}
	}

	// Public routes
	r.GET("/author/:slug", userHandler.Profile)      // profile, latest tab
	r.GET("/author/:slug/:tab", userHandler.Profile) // profile tab
	r.GET("/categories", categoryHandler.ListAll)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// Anonymous visitors vote too
	r.POST("/entry/vote", limited(voteHandler.Vote)...)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/entry/action", entryHandler.Action) // favorite_list
		authorized.POST("/entry/action", limited(entryHandler.Action)...)
		authorized.POST("/category/action", categoryHandler.Action)
		authorized.GET("/categories/following", categoryHandler.List)
		authorized.POST("/author/:slug/memento", userHandler.Memento)
	}

	if d.Registry != nil {
		if d.Limiter != nil {
			metrics.RegisterRateLimiterClients(d.Registry, d.Limiter.ActiveLimiters)
		}
		r.GET("/metrics", gin.WrapH(metrics.Handler(d.Registry)))
	}
}
