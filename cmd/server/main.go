package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/api"
	"github.com/huddle-work/huddle/internal/config"
	"github.com/huddle-work/huddle/internal/mailer"
	"github.com/huddle-work/huddle/internal/middleware"
	"github.com/huddle-work/huddle/internal/observ"
	"github.com/huddle-work/huddle/internal/scheduler"
	"github.com/huddle-work/huddle/internal/store"
	"github.com/huddle-work/huddle/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	st, err := store.New(cfg.SnapshotPath, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	sched := scheduler.New(logger)
	defer sched.Stop()

	// Without SMTP config, reset codes are generated but never mailed.
	// Useful for local work; the code is still in the snapshot.
	var mail mailer.Mailer = mailer.Discard{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, logger)
	} else {
		logger.Warn("SMTP not configured, password reset emails disabled")
	}

	svc := workspace.New(st, sched, mail, cfg.TokenSecret, cfg.BaseURL, cfg.AvatarDir, logger)

	authHandler := api.NewAuthHandler(svc, logger)
	channelHandler := api.NewChannelHandler(svc, logger)
	dmHandler := api.NewDmHandler(svc, logger)
	messageHandler := api.NewMessageHandler(svc, logger)
	userHandler := api.NewUserHandler(svc, logger)
	standupHandler := api.NewStandupHandler(svc, logger)
	adminHandler := api.NewAdminHandler(svc, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	logger.Info("starting huddle",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("snapshot", cfg.SnapshotPath),
	)

	// Health check and auth endpoints are public; avatars are static files.
	srv.GET("/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.Static("/static", cfg.AvatarDir)

	srv.POST("/v1/auth/register", authHandler.Register)
	srv.POST("/v1/auth/login", authHandler.Login)
	srv.POST("/v1/auth/passwordreset/request", authHandler.RequestPasswordReset)
	srv.POST("/v1/auth/passwordreset/reset", authHandler.ResetPassword)

	// Everything else carries a bearer token. The middleware only extracts
	// it; session validity is checked inside each operation.
	v1 := srv.Group("/v1")
	v1.Use(middleware.BearerToken())

	v1.POST("/auth/logout", authHandler.Logout)

	v1.POST("/channels/create", channelHandler.Create)
	v1.GET("/channels/list", channelHandler.List)
	v1.GET("/channels/listall", channelHandler.ListAll)
	v1.GET("/channel/details", channelHandler.Details)
	v1.POST("/channel/join", channelHandler.Join)
	v1.POST("/channel/invite", channelHandler.Invite)
	v1.POST("/channel/leave", channelHandler.Leave)
	v1.POST("/channel/addowner", channelHandler.AddOwner)
	v1.POST("/channel/removeowner", channelHandler.RemoveOwner)
	v1.GET("/channel/messages", channelHandler.Messages)

	v1.POST("/dm/create", dmHandler.Create)
	v1.GET("/dm/list", dmHandler.List)
	v1.GET("/dm/details", dmHandler.Details)
	v1.DELETE("/dm/remove", dmHandler.Remove)
	v1.POST("/dm/leave", dmHandler.Leave)
	v1.GET("/dm/messages", dmHandler.Messages)

	v1.POST("/message/send", messageHandler.Send)
	v1.POST("/message/senddm", messageHandler.SendDm)
	v1.PUT("/message/edit", messageHandler.Edit)
	v1.DELETE("/message/remove", messageHandler.Remove)
	v1.POST("/message/react", messageHandler.React)
	v1.POST("/message/unreact", messageHandler.Unreact)
	v1.POST("/message/pin", messageHandler.Pin)
	v1.POST("/message/unpin", messageHandler.Unpin)
	v1.POST("/message/share", messageHandler.Share)
	v1.POST("/message/sendlater", messageHandler.SendLater)
	v1.POST("/message/sendlaterdm", messageHandler.SendLaterDm)
	v1.GET("/search", messageHandler.Search)

	v1.GET("/user/profile", userHandler.Profile)
	v1.GET("/users/all", userHandler.All)
	v1.PUT("/user/profile/setname", userHandler.SetName)
	v1.PUT("/user/profile/setemail", userHandler.SetEmail)
	v1.PUT("/user/profile/sethandle", userHandler.SetHandle)
	v1.POST("/user/profile/uploadphoto", userHandler.UploadPhoto)
	v1.GET("/notifications/get", userHandler.Notifications)

	v1.POST("/standup/start", standupHandler.Start)
	v1.GET("/standup/active", standupHandler.Active)
	v1.POST("/standup/send", standupHandler.Send)

	v1.DELETE("/admin/user/remove", adminHandler.RemoveUser)
	v1.POST("/admin/userpermission/change", adminHandler.ChangePermission)
	v1.DELETE("/clear", adminHandler.Clear)

	return srv.Run(":" + cfg.Port)
}
