package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/matchpoint-app/server/api/rest"
	"github.com/matchpoint-app/server/audit"
	"github.com/matchpoint-app/server/cache"
	"github.com/matchpoint-app/server/config"
	dbadapter "github.com/matchpoint-app/server/db"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/model"
	"github.com/matchpoint-app/server/scheduler"
	"github.com/matchpoint-app/server/social"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(nil)

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Core services ----
	retry := social.RetryPolicy{
		Attempts: cfg.Social.StoreRetries,
		Backoff:  cfg.Social.StoreRetryBackoff,
	}
	friendSvc := social.NewFriendshipService(db, logger)
	rosterSvc := social.NewRosterService(db, logger)
	inviteSvc := social.NewInviteService(db, logger)
	dirSvc := social.NewDirectoryService(db, c, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("popular_sports_refresh", cfg.Social.PopularRefreshPeriod, func() {
		if err := dirSvc.RefreshPopular(context.Background()); err != nil {
			logger.Warn("popular sports refresh failed", zap.Error(err))
		}
	})
	sched.AddTicker("audit_prune", 12*time.Hour, func() {
		if err := auditSvc.Prune(context.Background(), cfg.Social.AuditRetention); err != nil {
			logger.Warn("audit prune failed", zap.Error(err))
		}
	})

	// ---- Gin ----
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- Handlers ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	friendH := apirest.NewFriendHandler(friendSvc, auditSvc, retry)
	sportH := apirest.NewSportHandler(rosterSvc, dirSvc, retry)
	inviteH := apirest.NewInviteHandler(inviteSvc, auditSvc, retry)
	profileH := apirest.NewProfileHandler(db, friendSvc, rosterSvc, inviteSvc, dirSvc)
	postH := apirest.NewPostHandler(db)
	showH := apirest.NewShowcaseHandler(db)
	adminH := apirest.NewAdminHandler(db, sched, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/register", authH.Register)
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		friendsG := api.Group("/friends")
		friendsG.Use(mw.Auth(cfg.Security, c))
		friendsG.GET("", friendH.List)
		friendsG.GET("/requests", friendH.ListRequests)
		friendsG.POST("/request", friendH.SendRequest)
		friendsG.POST("/accept/:id", friendH.Accept)
		friendsG.DELETE("/reject/:id", friendH.Reject)
		friendsG.DELETE("/:id", friendH.Remove)
		friendsG.POST("/block/:id", friendH.Block)

		sportsG := api.Group("/sports")
		sportsG.Use(mw.Auth(cfg.Security, c))
		sportsG.GET("", sportH.List)
		sportsG.POST("", sportH.Add)
		sportsG.GET("/popular", sportH.Popular)
		sportsG.DELETE("/:name", sportH.Remove)
		sportsG.GET("/:name/participants", sportH.Participants)

		invitesG := api.Group("/invites")
		invitesG.Use(mw.Auth(cfg.Security, c))
		invitesG.GET("", inviteH.List)
		invitesG.POST("", inviteH.Send)
		invitesG.POST("/:id/respond", inviteH.Respond)

		profileG := api.Group("/profile")
		profileG.Use(mw.Auth(cfg.Security, c))
		profileG.GET("", profileH.Me)
		profileG.PUT("", profileH.Update)
		profileG.GET("/overview", profileH.Overview)
		api.GET("/users/:username", mw.Auth(cfg.Security, c), profileH.User)

		postsG := api.Group("/posts")
		postsG.Use(mw.Auth(cfg.Security, c))
		postsG.GET("", postH.List)
		postsG.POST("", postH.Create)
		postsG.DELETE("/:id", postH.Delete)

		showG := api.Group("/showcase")
		showG.Use(mw.Auth(cfg.Security, c))
		showG.GET("", showH.List)
		showG.POST("", showH.Create)
		showG.DELETE("/:id", showH.Delete)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		if len(cfg.Security.AdminAllowIPs) > 0 {
			adminG.Use(mw.IPWhitelist(cfg.Security.AdminAllowIPs))
		}
		adminG.GET("/stats", adminH.Stats)
		adminG.POST("/users/:id/ban", adminH.BanUser)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
