package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/middlewares"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/craftfolio/studio_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("craftfolio-studio")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.AuthMiddleware())
	r.Use(middlewares.LoaderMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := models.MigrateDatabase(); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Error("migration failed: " + err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Start outbox dispatcher (publishes AFTER commit).
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	go workflow.NewOutboxDispatcher(logger).Run(dispatcherCtx)

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop background workers first so they don't start new work while we're draining.
	cancelDispatcher()

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func registerRoutes(r *gin.Engine) {

	// Public surface: scheduling page, booking, analytics ingestion,
	// client-facing proposal actions.
	public := r.Group("/public")
	{
		public.GET("/schedule/:slug", publicSchedulePageHandler)
		public.GET("/schedule/:slug/slots", publicSlotsHandler)
		public.POST("/schedule/:slug/bookings", publicBookingHandler)
		public.POST("/track/:slug", analyticsTrackHandler)
	}

	// Authenticated API.
	api := r.Group("/api", middlewares.RequireAccount())
	{
		api.GET("/proposals", listProposalsHandler)
		api.POST("/proposals", createProposalHandler)
		api.GET("/proposals/:id", getProposalHandler)
		api.PUT("/proposals/:id", updateProposalHandler)
		api.DELETE("/proposals/:id", deleteProposalHandler)
		api.POST("/proposals/:id/duplicate", duplicateProposalHandler)
		api.POST("/proposals/:id/send", sendProposalHandler)
		api.POST("/proposals/:id/view", markProposalViewedHandler)
		api.POST("/proposals/:id/accept", acceptProposalHandler)
		api.POST("/proposals/:id/logo", uploadProposalLogoHandler)
		api.POST("/proposals/:id/export", exportProposalPDFHandler)

		api.GET("/contracts", listContractsHandler)
		api.POST("/contracts", createContractHandler)
		api.GET("/contracts/stats", contractStatsHandler)
		api.GET("/contracts/:id", getContractHandler)
		api.PUT("/contracts/:id", updateContractHandler)
		api.DELETE("/contracts/:id", deleteContractHandler)
		api.POST("/contracts/:id/status", updateContractStatusHandler)
		api.POST("/contracts/:id/export", exportContractPDFHandler)
		api.POST("/contracts/wizard/commit", contractWizardCommitHandler)

		api.GET("/contract-templates", listContractTemplatesHandler)
		api.POST("/contract-templates", createContractTemplateHandler)
		api.GET("/contract-templates/:id", getContractTemplateHandler)
		api.PUT("/contract-templates/:id", updateContractTemplateHandler)
		api.DELETE("/contract-templates/:id", deleteContractTemplateHandler)

		api.GET("/meeting-types", listMeetingTypesHandler)
		api.POST("/meeting-types", createMeetingTypeHandler)
		api.GET("/meeting-types/:id", getMeetingTypeHandler)
		api.PUT("/meeting-types/:id", updateMeetingTypeHandler)
		api.DELETE("/meeting-types/:id", deleteMeetingTypeHandler)
		api.POST("/meeting-types/:id/toggle", toggleMeetingTypeHandler)

		api.GET("/schedule-settings", getScheduleSettingsHandler)
		api.PUT("/schedule-settings", saveScheduleSettingsHandler)

		api.GET("/bookings", listBookingsHandler)
		api.POST("/bookings", createBookingHandler)
		api.GET("/bookings/calendar", bookingCalendarHandler)
		api.GET("/bookings/export", exportBookingsHandler)
		api.GET("/bookings/:id", getBookingHandler)
		api.POST("/bookings/:id/complete", completeBookingHandler)
		api.POST("/bookings/:id/cancel", cancelBookingHandler)

		api.GET("/clients", listClientsHandler)
		api.POST("/clients", createClientHandler)
		api.GET("/clients/:id", getClientHandler)
		api.PUT("/clients/:id", updateClientHandler)
		api.DELETE("/clients/:id", deleteClientHandler)

		api.GET("/projects", listProjectsHandler)
		api.POST("/projects", createProjectHandler)
		api.GET("/projects/:id", getProjectHandler)
		api.PUT("/projects/:id", updateProjectHandler)
		api.DELETE("/projects/:id", deleteProjectHandler)

		api.GET("/leads", listLeadsHandler)
		api.POST("/leads", createLeadHandler)
		api.GET("/leads/:id", getLeadHandler)
		api.PUT("/leads/:id", updateLeadHandler)
		api.DELETE("/leads/:id", deleteLeadHandler)
		api.POST("/leads/:id/convert", convertLeadHandler)

		api.GET("/analytics/summary", analyticsSummaryHandler)
		api.POST("/uploads", uploadObjectHandler)
	}

	// Ops tooling (admin only): replay outbox messages that were marked DEAD.
	r.POST("/internal/ops/outbox/replay", outboxReplayHandler)
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
