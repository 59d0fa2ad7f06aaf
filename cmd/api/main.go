package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/collegelink-api/internal/config"
	"github.com/yourusername/collegelink-api/internal/handler"
	"github.com/yourusername/collegelink-api/internal/middleware"
	pgRepo "github.com/yourusername/collegelink-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/collegelink-api/internal/repository/redis"
	"github.com/yourusername/collegelink-api/internal/service"
	ws "github.com/yourusername/collegelink-api/internal/websocket"
	"github.com/yourusername/collegelink-api/pkg/auth"
	"github.com/yourusername/collegelink-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	postRepo := pgRepo.NewPostRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Session issuer with Redis-backed revocation
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Notification dispatcher
	var emailService service.EmailService
	switch cfg.Email.Provider {
	case "resend":
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.VerificationBaseURL)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	default:
		log.Println("Email provider is noop; verification emails are logged, not sent")
		emailService = &service.NoopEmailService{}
	}

	collegeDataService := service.NewCollegeDataService()
	emailVerifier := service.NewCollegeEmailVerifier()

	authService, err := service.NewAuthService(userRepo, emailService, collegeDataService, jwtService, service.AuthServiceConfig{
		MinPasswordLength:        cfg.Auth.MinPasswordLength,
		VerificationTTL:          time.Duration(cfg.Email.VerificationTTLHrs) * time.Hour,
		DegradeOnDispatchFailure: cfg.Email.DegradeOnDispatchFailure,
	})
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	// Live feed hub
	hub := ws.NewHub()
	go hub.Run()

	postService, err := service.NewPostService(postRepo, userRepo, hub)
	if err != nil {
		log.Printf("Failed to initialize PostService: %v", err)
		os.Exit(1)
	}

	// Handlers and middleware
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.ExpirationHrs)
	postHandler := handler.NewPostHandler(postService)
	collegeHandler := handler.NewCollegeHandler(emailVerifier)
	adminHandler := handler.NewAdminHandler(userRepo, postRepo)
	wsHandler := handler.NewWSHandler(hub, jwtService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()

	// Trusted proxies affect c.ClientIP(), which feeds the rate limiter.
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.LimitByIP(middleware.DefaultAuthRateLimitConfig()))
		{
			strict := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/signup", strict, authHandler.Signup)
			authGroup.POST("/login", strict, authHandler.Login)
			authGroup.POST("/login-legacy", strict, authHandler.LegacyLogin)
			authGroup.POST("/verify-email", authHandler.VerifyEmail)
			authGroup.POST("/resend-verification", strict, authHandler.ResendVerification)

			authed := authGroup.Group("/")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.POST("/logout", authHandler.Logout)
				authed.GET("/profile", authHandler.GetProfile)
				authed.PUT("/profile", authHandler.UpdateProfile)
				authed.GET("/college-data", authHandler.GetCollegeData)
			}
		}

		collegeGroup := api.Group("/college")
		collegeGroup.Use(rateLimiter.LimitByIP(middleware.DefaultAuthRateLimitConfig()))
		{
			collegeGroup.POST("/verify-email", collegeHandler.VerifyEmail)
		}

		postsGroup := api.Group("/posts")
		postsGroup.Use(authMiddleware.RequireAuth())
		{
			postsGroup.GET("", postHandler.GetFeed)
			postsGroup.POST("", postHandler.CreatePost)
			postsGroup.GET("/user/:user_id", postHandler.GetUserPosts)
			postsGroup.GET("/:id", postHandler.GetPost)
			postsGroup.DELETE("/:id", postHandler.DeletePost)
			postsGroup.POST("/:id/like", postHandler.ToggleLike)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAuth())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/users/export", adminHandler.ExportUsers)
			adminGroup.DELETE("/users", adminHandler.ClearUsers)
			adminGroup.DELETE("/posts", adminHandler.ClearPosts)
		}
	}

	router.GET("/ws", wsHandler.Connect)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}()
	log.Printf("Server started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
