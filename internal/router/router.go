package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smartboard-dev/smartboard/internal/handlers"
	"github.com/smartboard-dev/smartboard/internal/middleware"
	"github.com/smartboard-dev/smartboard/internal/refresher"
	"github.com/smartboard-dev/smartboard/internal/store"
	"gorm.io/gorm"
)

// Deps carries the constructed collaborators the routes are wired with.
type Deps struct {
	DB             *gorm.DB
	Notices        *store.NoticeStore
	Users          *store.UserStore
	Board          *refresher.Refresher
	Hub            *handlers.BoardHub
	AllowedOrigins []string
	CookieDomain   string
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(deps.Users, deps.CookieDomain)
	noticeHandler := handlers.NewNoticeHandler(deps.Notices, deps.Board)
	boardHandler := handlers.NewBoardHandler(deps.Board)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)
		api.GET("/ws/board", deps.Hub.Serve)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.AuthMiddleware(deps.Users), authHandler.Me)
		}

		// Public browse views, served from the refresher snapshot.
		board := api.Group("/board")
		{
			board.GET("", boardHandler.ListBoard)
			board.GET("/:notice_id", boardHandler.GetBoardNotice)
			board.POST("/refresh", boardHandler.RefreshBoard)
		}

		notices := api.Group("/notices", middleware.AuthMiddleware(deps.Users), middleware.RequireAdmin())
		{
			notices.GET("", noticeHandler.ListNotices)
			notices.POST("", noticeHandler.CreateNotice)
			notices.GET("/:notice_id", noticeHandler.GetNotice)
			notices.PUT("/:notice_id", noticeHandler.UpdateNotice)
			notices.DELETE("/:notice_id", noticeHandler.DeleteNotice)
		}
	}

	return r
}
