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
	"github.com/yourusername/blog-api/internal/config"
	"github.com/yourusername/blog-api/internal/handler"
	"github.com/yourusername/blog-api/internal/middleware"
	pgRepo "github.com/yourusername/blog-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/blog-api/internal/repository/redis"
	"github.com/yourusername/blog-api/internal/service"
	ws "github.com/yourusername/blog-api/internal/websocket"
	"github.com/yourusername/blog-api/pkg/auth"
	"github.com/yourusername/blog-api/pkg/database"
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
	otpRepo := pgRepo.NewOTPRepo(db)
	postRepo := pgRepo.NewPostRepo(db)
	commentRepo := pgRepo.NewCommentRepo(db)
	likeRepo := pgRepo.NewLikeRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Root context governing background goroutines.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	otpService, err := service.NewOTPService(otpRepo, nil)
	if err != nil {
		log.Printf("Failed to initialize OTPService: %v", err)
		os.Exit(1)
	}

	var emailService service.EmailService
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Email delivery enabled (Resend)")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("Email delivery disabled, verification codes will only be logged")
	}

	// Websocket hub for realtime notifications.
	hub := ws.NewHub()
	go hub.Run()

	// Services
	authService, err := service.NewAuthService(userRepo, otpService, emailService, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	postService, err := service.NewPostService(postRepo, userRepo, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize PostService: %v", err)
		os.Exit(1)
	}
	commentService, err := service.NewCommentService(commentRepo, postRepo, userRepo, hub)
	if err != nil {
		log.Printf("Failed to initialize CommentService: %v", err)
		os.Exit(1)
	}
	likeService, err := service.NewLikeService(likeRepo, postRepo, userRepo, cacheRepo, hub)
	if err != nil {
		log.Printf("Failed to initialize LikeService: %v", err)
		os.Exit(1)
	}

	// Periodic cleanup of expired verification codes.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Starting hourly cleanup of expired verification codes")

		for {
			select {
			case <-ticker.C:
				deleted, err := otpRepo.DeleteExpired()
				if err != nil {
					log.Printf("Failed to clean up expired verification codes: %v", err)
				} else if deleted > 0 {
					log.Printf("Cleaned up %d expired verification codes", deleted)
				}
			case <-ctx.Done():
				log.Println("Stopping verification code cleanup goroutine")
				return
			}
		}
	}()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, postService, commentRepo)
	postHandler := handler.NewPostHandler(postService, likeService)
	commentHandler := handler.NewCommentHandler(commentService)
	wsHandler := handler.NewWSHandler(hub, jwtService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: do not trust proxy headers. When running behind a
		// load balancer, replace nil with its address list.
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
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/verify-email", authHandler.VerifyEmail)
			authGroup.POST("/resend-code", authHandler.ResendCode)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
			authGroup.POST("/google", authHandler.ProviderSignIn)
		}

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
			users.GET("/me/export", userHandler.ExportData)
		}

		posts := api.Group("/posts")
		{
			authedPosts := posts.Group("")
			authedPosts.Use(authMiddleware.RequireAuth())
			{
				authedPosts.POST("", postHandler.CreatePost)
			}

			userPosts := posts.Group("/user/:userId")
			userPosts.Use(middleware.ExtractUintParam("userId", "targetUserID"))
			{
				userPosts.GET("", postHandler.GetUserPosts)
			}

			postWithID := posts.Group("/:id")
			postWithID.Use(middleware.ExtractUintParam("id", "postID"))
			{
				postWithID.GET("", postHandler.GetPost)
				postWithID.GET("/comments", commentHandler.ListComments)
				postWithID.GET("/like", postHandler.GetLikeCount)

				authedPost := postWithID.Group("")
				authedPost.Use(authMiddleware.RequireAuth())
				{
					authedPost.DELETE("", postHandler.DeletePost)
					authedPost.POST("/comments", commentHandler.CreateComment)
					authedPost.POST("/like", postHandler.LikePost)
					authedPost.DELETE("/like", postHandler.UnlikePost)

					commentWithID := authedPost.Group("/comments/:commentId")
					commentWithID.Use(middleware.ExtractUintParam("commentId", "commentID"))
					{
						commentWithID.DELETE("", commentHandler.DeleteComment)
					}
				}
			}
		}
	}

	router.GET("/ws", wsHandler.HandleConnection)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
