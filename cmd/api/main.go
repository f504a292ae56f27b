package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/library-desk-api/api/swagger"
	"github.com/noah-isme/library-desk-api/internal/handler"
	"github.com/noah-isme/library-desk-api/internal/middleware"
	"github.com/noah-isme/library-desk-api/internal/repository"
	"github.com/noah-isme/library-desk-api/internal/service"
	"github.com/noah-isme/library-desk-api/pkg/cache"
	"github.com/noah-isme/library-desk-api/pkg/config"
	"github.com/noah-isme/library-desk-api/pkg/database"
	"github.com/noah-isme/library-desk-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/library-desk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/library-desk-api/pkg/middleware/requestid"
)

// @title Library Desk API
// @version 1.0.0
// @description School library circulation desk backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Statistics.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	loanRepo := repository.NewLoanRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	shelfRepo := repository.NewShelfRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Statistics.CacheTTL, logr, cfg.Statistics.CacheEnabled && redisClient != nil)
	loanSvc := service.NewLoanService(loanRepo, validate, logr)
	memberSvc := service.NewMemberService(memberRepo, loanRepo, validate, logr)
	shelfSvc := service.NewShelfService(shelfRepo, loanRepo, validate, logr)
	statsSvc := service.NewStatisticsService(loanRepo, memberRepo, shelfRepo, cacheSvc, cfg.Statistics.CacheTTL, logr)
	booksSvc := service.NewBooksService(cfg.Books, logr)
	authSvc := service.NewAuthService(cfg.Auth, validate, logr)

	loanHandler := handler.NewLoanHandler(loanSvc, statsSvc)
	memberHandler := handler.NewMemberHandler(memberSvc, statsSvc)
	shelfHandler := handler.NewShelfHandler(shelfSvc, statsSvc)
	statsHandler := handler.NewStatisticsHandler(statsSvc)
	bookHandler := handler.NewBookHandler(booksSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/auth/login", authHandler.Login)

	r.GET("/list-students", loanHandler.List)
	r.GET("/search-students", loanHandler.Search)
	r.GET("/get-members", memberHandler.List)
	r.GET("/shelf-item", shelfHandler.List)
	r.GET("/get-statistics", statsHandler.Get)
	r.GET("/api/book/:isbn", bookHandler.Lookup)

	mutating := r.Group("/")
	if cfg.Auth.Enabled {
		mutating.Use(middleware.JWT(authSvc))
	}
	mutating.POST("/add-student", loanHandler.Create)
	mutating.DELETE("/return-book/:id", loanHandler.Return)
	mutating.PUT("/extend-return-date/:id", loanHandler.Extend)
	mutating.PUT("/update-student-status", loanHandler.Refresh)
	mutating.PUT("/add/member", memberHandler.Create)
	mutating.PUT("/edit-member/:id", memberHandler.Edit)
	mutating.DELETE("/revoke-member/:id", memberHandler.Revoke)
	mutating.PUT("/add-shelf", shelfHandler.Add)
	mutating.DELETE("/shelf-item/:id", shelfHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
