package main

import (
	"log"
	"time"

	"github.com/classclarus/classroom-api/internal/config"
	"github.com/classclarus/classroom-api/internal/database"
	"github.com/classclarus/classroom-api/internal/handlers"
	"github.com/classclarus/classroom-api/internal/middleware"
	"github.com/classclarus/classroom-api/internal/ratelimit"
	"github.com/classclarus/classroom-api/internal/repository"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/classclarus/classroom-api/internal/store"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("classroom_session", sessionStore))

	// Redis pool for the join rate limiter
	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", redisAddr)
		},
	}
	limiter := ratelimit.NewRedisLimiter(pool, cfg.JoinRateLimit, cfg.JoinRateWindow, logger)

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	st := store.New(db)

	// Services
	authService := services.NewAuthService(userRepo)
	resolver := services.NewCodeResolver(orgRepo, classRepo, userRepo)
	guardianService := services.NewGuardianService(userRepo, logger)
	membershipService := services.NewMembershipService(resolver, guardianService, classRepo, orgRepo, st, logger)
	accountService := services.NewAccountService(userRepo, classRepo, orgRepo, recordRepo, st, logger)
	orgService := services.NewOrganizationService(orgRepo)
	classService := services.NewClassService(classRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	joinHandler := handlers.NewJoinHandler(membershipService, logger)
	leaveHandler := handlers.NewLeaveHandler(membershipService, logger)
	accountHandler := handlers.NewAccountHandler(accountService, logger)
	orgHandler := handlers.NewOrganizationHandler(orgService, logger)
	classHandler := handlers.NewClassHandler(classService, logger)

	requireAuth := middleware.RequireAuth(authService)
	joinRateLimit := middleware.RateLimit(limiter)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Classroom API is running",
		})
	})

	// Legacy unprefixed join routes kept for older clients
	legacy := r.Group("/join")
	legacy.Use(requireAuth, joinRateLimit)
	{
		legacy.POST("", joinHandler.Join)
		legacy.POST("/organization", joinHandler.JoinOrganization)
	}

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Join routes (protected, rate limited)
		join := api.Group("/join")
		join.Use(requireAuth, joinRateLimit)
		{
			join.POST("", joinHandler.Join)
			join.POST("/class", joinHandler.JoinClass)
			join.POST("/organization", joinHandler.JoinOrganization)
		}

		// Leave routes (protected)
		leave := api.Group("/leave")
		leave.Use(requireAuth)
		{
			leave.POST("/class", leaveHandler.LeaveClass)
			leave.POST("/organization", leaveHandler.LeaveOrganization)
		}

		// Account routes (protected)
		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.POST("/delete-account", accountHandler.DeleteAccount)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(requireAuth)
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
		}

		// Class routes (protected)
		classes := api.Group("/classes")
		classes.Use(requireAuth)
		{
			classes.POST("", classHandler.CreateClass)
			classes.GET("", classHandler.ListClasses)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
