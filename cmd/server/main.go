package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/anon-forum/internal/cache"
	"github.com/yukikurage/anon-forum/internal/config"
	"github.com/yukikurage/anon-forum/internal/constants"
	"github.com/yukikurage/anon-forum/internal/database"
	"github.com/yukikurage/anon-forum/internal/handlers"
	"github.com/yukikurage/anon-forum/internal/logger"
	"github.com/yukikurage/anon-forum/internal/middleware"
	"github.com/yukikurage/anon-forum/internal/repository"
	"github.com/yukikurage/anon-forum/internal/services"
	"github.com/yukikurage/anon-forum/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	tagRepo := repository.NewTagRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	tagDirectory := cache.NewTagDirectory(redisClient, cfg.TagCacheTTL, log)

	achievementService := services.NewAchievementService(achievementRepo, postRepo, voteRepo, log)
	tagService := services.NewTagService(tagRepo, tagDirectory, log)
	authService := services.NewAuthService(userRepo, log)
	userService := services.NewUserService(userRepo, postRepo, achievementRepo, log)
	reportService := services.NewReportService(reportRepo, userRepo, log)
	postService := services.NewPostService(postRepo, replyRepo, userRepo, tagService, achievementService, log)
	voteService := services.NewVoteService(voteRepo, postRepo, userRepo, achievementService, log)
	feedService := services.NewFeedService(postRepo, voteRepo, tagService)
	messageService := services.NewMessageService(messageRepo, userRepo, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := achievementService.SeedCatalog(ctx); err != nil {
		log.Fatal("failed to seed achievements", zap.Error(err))
	}
	if _, err := authService.EnsureBootstrapAdmin(ctx, cfg.AdminUser, cfg.AdminPassword); err != nil {
		log.Fatal("failed to create bootstrap admin", zap.Error(err))
	}
	cancel()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	if len(cfg.AllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders(constants.HeaderRequestID)
		corsCfg.AddExposeHeaders(constants.HeaderRequestID)
		r.Use(cors.New(corsCfg))
	}

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatal("failed to create Redis session store", zap.Error(err))
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	renderer := utils.NewContentRenderer()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Forum API is running",
		})
	})

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService, userService),
		Posts:    handlers.NewPostHandler(postService, voteService, feedService, tagService, renderer),
		Users:    handlers.NewUserHandler(userService, reportService),
		Admin:    handlers.NewAdminHandler(reportService),
		Messages: handlers.NewMessageHandler(messageService, authService, renderer),
	}, userRepo, middleware.NewRateLimiter(cfg.RateLimitPerMinute))

	// Start server
	log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
