package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/getmentor/supercoach-admin/config"
	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/handlers"
	"github.com/getmentor/supercoach-admin/internal/middleware"
	"github.com/getmentor/supercoach-admin/pkg/logger"
)

const (
	maxBodySize     = 100 * 1024
	shutdownTimeout = 5 * time.Second
)

// NewRouter builds the dashboard API. ctx bounds background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, client *api.Client, views *handlers.Views) *gin.Engine {
	resp := handlers.NewResponder(cfg.API.LoginURL, views.Reset)

	healthHandler := handlers.NewHealthHandler(client.Health)
	authHandler := handlers.NewAuthHandler(client, views, resp)
	dashboardHandler := handlers.NewDashboardHandler(views, resp)
	coursesHandler := handlers.NewCoursesHandler(client, views, resp)
	studentsHandler := handlers.NewStudentsHandler(client, views, resp)
	enrollmentsHandler := handlers.NewEnrollmentsHandler(client, views, resp)
	superCoachHandler := handlers.NewSuperCoachHandler(views, resp)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:5173")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.DashboardTokenHeader, middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(ctx, 20, 40) // 20 req/sec, burst of 40
	loginRateLimiter := middleware.NewRateLimiter(ctx, 0.1, 5)   // 1 req/10s, burst of 5 (credential guessing)
	mutationRateLimiter := middleware.NewRateLimiter(ctx, 2, 5)  // 2 req/sec, burst of 5

	apiGroup := router.Group("/api")
	// Operational endpoints are not token protected
	apiGroup.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	apiGroup.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := apiGroup.Group("")
	protected.Use(middleware.DashboardTokenMiddleware(cfg.Server.DashboardToken))
	protected.Use(middleware.BodySizeLimitMiddleware(maxBodySize))

	protected.POST("/auth/login", loginRateLimiter.Middleware(), authHandler.Login)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/session", authHandler.GetSession)

	protected.GET("/dashboard", generalRateLimiter.Middleware(), dashboardHandler.GetMetrics)
	protected.GET("/dashboard/student-status", generalRateLimiter.Middleware(), dashboardHandler.GetStudentStatus)

	protected.GET("/courses", generalRateLimiter.Middleware(), coursesHandler.ListCourses)
	protected.POST("/courses", mutationRateLimiter.Middleware(), coursesHandler.CreateCourse)

	protected.GET("/students", generalRateLimiter.Middleware(), studentsHandler.ListStudents)
	protected.GET("/students/:id", generalRateLimiter.Middleware(), studentsHandler.GetStudent)
	protected.POST("/students", mutationRateLimiter.Middleware(), studentsHandler.CreateStudent)

	protected.GET("/leaderboard", generalRateLimiter.Middleware(), enrollmentsHandler.GetLeaderboard)
	protected.GET("/enrollments", generalRateLimiter.Middleware(), enrollmentsHandler.ListEnrollments)
	protected.POST("/enrollments", mutationRateLimiter.Middleware(), enrollmentsHandler.Enroll)

	protected.GET("/supercoaches", generalRateLimiter.Middleware(), superCoachHandler.ListSuperCoaches)
	protected.GET("/conversations", generalRateLimiter.Middleware(), superCoachHandler.ListConversations)

	return router
}

// Run serves handler on the configured port until ctx is canceled, then shuts down gracefully
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              "127.0.0.1:" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dashboard server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down dashboard server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Dashboard server exited")
	return nil
}
