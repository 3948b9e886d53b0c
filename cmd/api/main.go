package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/omtii/marketplace/internal/admin"
	"github.com/omtii/marketplace/internal/alerts"
	"github.com/omtii/marketplace/internal/auth"
	"github.com/omtii/marketplace/internal/config"
	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/marketplace"
	"github.com/omtii/marketplace/internal/messaging"
	appmw "github.com/omtii/marketplace/internal/middleware"
	"github.com/omtii/marketplace/internal/observability"
	"github.com/omtii/marketplace/internal/roles"
	"github.com/omtii/marketplace/internal/upload"
	"github.com/omtii/marketplace/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	// Init subsystems
	auth.Configure(cfg.Auth)
	db.Init(cfg.Postgres, logger)
	auth.InitSessions(cfg.Redis, logger)
	alerts.Init(logger)
	appmw.Init(logger)
	uploads := upload.NewStore(cfg.Upload)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := db.Conn.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/bootstrap-admin", auth.BootstrapAdmin)

	// Public discovery
	e.GET("/user/:id/profile", user.GetPublicProfile)
	e.GET("/categories", marketplace.GetCategories)
	e.GET("/marketplace/services", marketplace.GetAllServices)

	// Authenticated group
	api := e.Group("")
	api.Use(appmw.JWT)

	api.GET("/auth/me", auth.Me)
	api.POST("/auth/signout", auth.SignOut)

	api.PATCH("/user/profile", user.UpdateProfile)
	api.POST("/uploads/:bucket", uploads.Handler)

	// Vendor listings
	api.POST("/marketplace/services", marketplace.CreateService, appmw.RequireRoles(roles.Vendor))
	api.GET("/marketplace/services/me", marketplace.GetUserServices, appmw.RequireRoles(roles.Vendor))
	api.PATCH("/marketplace/services/:id", marketplace.UpdateService, appmw.RequireRoles(roles.Vendor))
	api.DELETE("/marketplace/services/:id", marketplace.DeleteService)

	// Service requests
	api.POST("/marketplace/requests", marketplace.CreateRequest, appmw.RequireRoles(roles.Buyer))
	api.GET("/marketplace/requests", marketplace.ListRequests)
	api.POST("/marketplace/requests/:id/accept", marketplace.AcceptRequest, appmw.RequireRoles(roles.Vendor, roles.Admin))
	api.POST("/marketplace/requests/:id/reject", marketplace.RejectRequest, appmw.RequireRoles(roles.Vendor, roles.Admin))

	// Request threads
	api.GET("/marketplace/requests/:id/messages", messaging.ListMessages)
	api.POST("/marketplace/requests/:id/messages", messaging.SendMessage)
	api.GET("/marketplace/requests/:id/unread", messaging.UnreadCount)
	api.GET("/marketplace/requests/:id/ws", messaging.ThreadWS)
	api.GET("/ws", messaging.UserWS)

	// Notifications
	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(appmw.JWT)
	adminGroup.Use(appmw.AdminGuard)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.PATCH("/users/:id", admin.UpdateUser)
	adminGroup.DELETE("/users/:id", admin.DeleteUser)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)
	adminGroup.POST("/users/:id/roles", admin.GrantRole)
	adminGroup.DELETE("/users/:id/roles/:role", admin.RevokeRole)
	adminGroup.GET("/services", admin.ListServices)
	adminGroup.PATCH("/services/:id", admin.UpdateService)
	adminGroup.POST("/services/:id/approve", admin.ApproveService)
	adminGroup.POST("/services/:id/reject", admin.RejectService)
	adminGroup.DELETE("/services/:id", admin.DeleteService)
	adminGroup.POST("/categories", admin.CreateCategory)
	adminGroup.PATCH("/categories/:id", admin.UpdateCategory)
	adminGroup.DELETE("/categories/:id", admin.DeleteCategory)

	// Uploaded objects are served as static content
	e.Static(cfg.Upload.PublicBase, uploads.BaseDir())

	logger.Info("api server listening", zap.String("addr", cfg.App.Addr()))
	if err := e.Start(cfg.App.Addr()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
