package api

import (
	"net/http"

	"github.com/classora/classora-BE/internal/db"
	"github.com/classora/classora-BE/internal/feed"
	"github.com/classora/classora-BE/internal/token"
	"github.com/classora/classora-BE/internal/util"
	"github.com/classora/classora-BE/internal/worker"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router          *gin.Engine
	dbStore         db.Store
	notifStore      feed.NotificationStore
	feedService     *feed.Service
	feedRegistry    *feed.Registry
	mutator         *feed.Mutator
	taskDistributor worker.TaskDistributor
	tokenMaker      token.Maker
	config          *util.Config
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(
	dbStore db.Store,
	notifStore feed.NotificationStore,
	feedService *feed.Service,
	feedRegistry *feed.Registry,
	mutator *feed.Mutator,
	taskDistributor worker.TaskDistributor,
	config *util.Config,
) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Token maker created successfully ✅")

	server := &Server{
		dbStore:         dbStore,
		notifStore:      notifStore,
		feedService:     feedService,
		feedRegistry:    feedRegistry,
		mutator:         mutator,
		taskDistributor: taskDistributor,
		tokenMaker:      tokenMaker,
		config:          config,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", server.checkHealth)

	v1 := router.Group("/v1")

	// Every surface reads the same snapshot: the bell badge, the notification
	// list and the dashboard must never disagree on counts.
	meGroup := v1.Group("/users/me", authMiddleware(server.tokenMaker))
	{
		meGroup.GET("/feed", server.getUserFeed)
		meGroup.POST("/feed/refresh", server.refreshUserFeed)

		notificationGroup := meGroup.Group("/notifications")
		{
			notificationGroup.GET("", server.listUserNotifications)
			notificationGroup.GET("/unread-count", server.getUnreadNotificationCount)
			notificationGroup.PATCH("/read-all", server.markAllNotificationsRead)
			notificationGroup.PATCH("/:id/read", server.markNotificationRead)
			notificationGroup.DELETE("/:id", server.deleteNotification)
		}
	}

	// Producer endpoint for domain-event services; delivery goes through the
	// task queue, never straight into the log.
	v1.POST("/notifications", authMiddleware(server.tokenMaker), server.createNotification)

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func (server *Server) checkHealth(ctx *gin.Context) {
	if err := server.dbStore.Ping(ctx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
