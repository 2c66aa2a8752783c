// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/uniseats/lecture-seat-reservation/internal/config"
	"github.com/uniseats/lecture-seat-reservation/internal/handler"
	"github.com/uniseats/lecture-seat-reservation/internal/middleware"
)

// Register sets up all routes.
//
// Tiering follows the trust level of the caller: the catalog index,
// health check and anonymous quiz need no session; the login-link
// endpoints create sessions and are rate limited; the seat board and
// reserve need a verified identity; delete/restore and the quiz tally
// additionally need the admin flag.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, a *handler.AuthHandler, r *handler.ReservationHandler, q *handler.QuizHandler) {
	e.GET("/healthz", handler.Health)

	// Public catalog, cached: lectures change by deployment, not at runtime.
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/lectures", r.ListLectures, cache)

	// Magic-link flow.  The request endpoint sends mail and is the one
	// surface worth throttling.
	limit := middleware.TokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/v1/lectures/:lecture/login", a.RequestLink, limit)
	e.GET("/v1/lectures/:lecture/login/verify", a.VerifyLink)
	e.POST("/v1/logout", a.Logout)

	// Anonymous quiz: deliberately outside the session middleware so
	// submissions cannot be correlated with an identity.
	e.GET("/v1/lectures/:lecture/quiz", q.Get)
	e.POST("/v1/lectures/:lecture/quiz", q.Submit)

	// Everything below requires a verified identity.
	auth := e.Group("/v1", middleware.SessionAuth(cfg.JWTSecret))
	auth.GET("/me", a.Me)
	auth.GET("/lectures/:lecture/sessions", r.LectureBoard)
	auth.POST("/sessions/:id/reserve", r.Reserve)

	// Admin overrides.
	admin := auth.Group("", middleware.RequireAdmin())
	admin.POST("/sessions/:id/delete", r.Delete)
	admin.POST("/sessions/:id/restore", r.Restore)
	admin.GET("/lectures/:lecture/quiz/tally", q.Tally)
}
