// Package server contains the HTTP handlers fronting the remote WikiNITT
// GraphQL API.
package server

import (
	"context"
	"log"
	"time"

	"github.com/pranava-mohan/WikiNITT/internal/cache"
	"github.com/pranava-mohan/WikiNITT/internal/config"
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	gateway          *gateway.Client
	communityService *service.CommunityService
	commentService   *service.CommentService
	voteService      *service.VoteService
	articleService   *service.ArticleService
	userService      *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize Redis. The cache degrades to pass-through when it is down.
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("wikinitt-gateway")

	middleware.InitMiddleware(cfg)

	server := newServer(cfg, gateway.New(cfg.GraphQLAPIURL), redisClient)
	server.promMiddleware = prom
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with a stub upstream and a miniredis client. Prometheus
// registration is skipped: the collector registry is process-global and
// tests build many servers.
func NewServerWithDeps(cfg *config.Config, gw *gateway.Client, redisClient *redis.Client) *Server {
	middleware.InitMiddleware(cfg)
	return newServer(cfg, gw, redisClient)
}

func newServer(cfg *config.Config, gw *gateway.Client, redisClient *redis.Client) *Server {
	server := &Server{
		config:  cfg,
		redis:   redisClient,
		gateway: gw,
	}
	server.communityService = service.NewCommunityService(gw)
	server.commentService = service.NewCommentService(gw)
	server.voteService = service.NewVoteService(gw)
	server.articleService = service.NewArticleService(gw)
	server.userService = service.NewUserService(gw)
	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Context Middleware to propagate Request ID and Viewer ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "WikiNITT Gateway Metrics Dashboard",
	}))

	// Editorial articles (public)
	articles := api.Group("/articles")
	articles.Get("/", s.GetArticles)
	articles.Get("/:slug", s.GetArticle)

	// Public feed
	api.Get("/feed", middleware.AuthOptional, s.GetFeed)

	// Group routes
	groups := api.Group("/c")
	groups.Get("/", middleware.AuthOptional, s.GetGroups)
	groups.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 2, 10*time.Minute, "create_group"), s.CreateGroup)
	// Define specific /:slug/:resource routes BEFORE generic /:slug routes
	groups.Get("/:slug/posts", middleware.AuthOptional, s.GetGroupPosts)
	groups.Post("/:slug/posts", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	groups.Post("/:slug/join", middleware.AuthRequired, s.JoinGroup)
	groups.Post("/:slug/leave", middleware.AuthRequired, s.LeaveGroup)
	groups.Get("/:slug/discussion", middleware.AuthRequired, s.GetDiscussion)
	groups.Get("/:slug", middleware.AuthOptional, s.GetGroup)
	groups.Put("/:slug", middleware.AuthRequired, s.UpdateGroup)
	groups.Delete("/:slug", middleware.AuthRequired, s.DeleteGroup)

	// Post routes
	posts := api.Group("/posts")
	posts.Get("/:id/comments", middleware.AuthOptional, s.GetComments)
	posts.Post("/:id/comments", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/vote", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 30, time.Minute, "vote"), s.VotePost)
	posts.Get("/:id", middleware.AuthOptional, s.GetPost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Get("/:id/replies", middleware.AuthOptional, s.GetReplies)
	comments.Post("/:id/vote", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 30, time.Minute, "vote"), s.VoteComment)
	comments.Put("/:id", middleware.AuthRequired, s.UpdateComment)
	comments.Delete("/:id", middleware.AuthRequired, s.DeleteComment)

	// Group chat
	channels := api.Group("/channels", middleware.AuthRequired)
	channels.Get("/:id/messages", s.GetChannelMessages)
	channels.Post("/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_chat"), s.SendMessage)
	api.Post("/discussions/:id/channels", middleware.AuthRequired, s.CreateChannel)

	// Public profiles
	users := api.Group("/u")
	users.Get("/:username/posts", middleware.AuthOptional, s.GetProfilePosts)
	users.Get("/:username/comments", middleware.AuthOptional, s.GetProfileComments)
	users.Get("/:username/groups", middleware.AuthOptional, s.GetProfileGroups)
	users.Get("/:username", middleware.AuthOptional, s.GetProfile)

	// Viewer identity and first-run setup
	api.Get("/me", middleware.AuthRequired, s.GetMe)
	api.Post("/me/avatar", middleware.AuthRequired, s.UploadAvatar)
	api.Get("/setup/check-username", middleware.RateLimit(
		s.redis, 20, time.Minute, "check_username"), s.CheckUsername)
	api.Post("/setup", middleware.AuthRequired, s.CompleteSetup)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The upstream API is
// required; Redis is reported but not required since the cache degrades
// to pass-through.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	upstreamStatus := "healthy"
	if err := s.gateway.Ping(ctx); err != nil {
		upstreamStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if upstreamStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"upstream": upstreamStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start runs the server until Listen returns
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "WikiNITT Gateway",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
