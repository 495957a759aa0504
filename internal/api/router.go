package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"sindico-backend/config"
	"sindico-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		occurrences := api.Group("/occurrences")
		occurrences.Use(mw.Identity())
		{
			occurrences.POST("", handler.CreateOccurrence)
			occurrences.GET("", handler.ListOccurrences)
			occurrences.GET("/statistics", caching, handler.GetStatistics)
			occurrences.GET("/:id", handler.GetOccurrence)
			occurrences.PATCH("/:id", handler.UpdateOccurrence)
			occurrences.DELETE("/:id", handler.DeleteOccurrence)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
