package main

import (
	"log"

	"sozluk/internal/config"
	"sozluk/internal/db"
	"sozluk/internal/metrics"
	"sozluk/internal/middleware"
	"sozluk/internal/router"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize Database
	db.Init(cfg.DatabaseURL)

	reg := metrics.NewRegistry()
	voteMetrics := metrics.NewVoteMetrics(reg)
	clock := clockwork.NewRealClock()

	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 60 * 60 * 24 * 30})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	router.RegisterRoutes(r, router.Deps{
		DB:         db.DB,
		Votes:      services.NewVoteService(db.DB, cfg.Rates, cfg.MaxAnonVotes, voteMetrics),
		Favorites:  services.NewFavoriteService(db.DB, cfg.Rates, voteMetrics),
		Profiles:   services.NewProfileService(db.DB, clock, services.DefaultEntriesPerPage),
		Entries:    services.NewEntryService(db.DB),
		Categories: services.NewCategoryService(db.DB),
		Mementos:   services.NewMementoService(db.DB),
		Metrics:    voteMetrics,
		Registry:   reg,
		Limiter:    middleware.NewClientRateLimiter(cfg.VoteRateLimit, cfg.VoteBurst, clock),
		Cache:      utils.GetCache(),
		CacheTTL:   cfg.TabCacheTTL,
	})

	log.Printf("sozluk server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
