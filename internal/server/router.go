package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Boards *handler.BoardHandler
	Notes  *handler.NoteHandler
	Users  *handler.UserHandler
}

// NewRouter registers every route under /api/v1. rdb may be nil.
func NewRouter(cfg *config.Config, logger logrus.FieldLogger, h Handlers, tokens middleware.AccessTokenParser, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	limited := middleware.RateLimit(cfg.RateLimit, rdb, logger)

	// Public routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", limited, h.Auth.Register)
		authGroup.POST("/login", limited, h.Auth.Login)
		authGroup.GET("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
	}
	api.GET("/boards", h.Boards.List)

	// Protected routes - require authentication
	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/boards/:id", h.Boards.Get)
		authorized.POST("/boards", h.Boards.Create)
		authorized.PATCH("/boards/:id", h.Boards.Update)
		authorized.DELETE("/boards/:id", h.Boards.Delete)
		authorized.POST("/boards/:id/accessBoard", h.Boards.Access)
		authorized.PATCH("/boards/:id/updateBoardAdmins", h.Boards.UpdateAdmins)
		authorized.PATCH("/boards/:id/updateBoardUsers", h.Boards.UpdateUsers)
		authorized.POST("/boards/:id/leaveBoard", h.Boards.Leave)

		authorized.GET("/notes", h.Notes.List)
		authorized.GET("/notes/:id", h.Notes.Get)
		authorized.POST("/notes", h.Notes.Create)
		authorized.PATCH("/notes/:id", h.Notes.Update)
		authorized.DELETE("/notes/:id", h.Notes.Delete)
		authorized.PATCH("/notes/:id/updateNoteUsers", h.Notes.UpdateUsers)

		authorized.GET("/users", h.Users.List)
		authorized.GET("/users/:id", h.Users.Get)
		authorized.PATCH("/users", h.Users.UpdateMe)
		authorized.POST("/users/uploads", h.Users.UploadImage)
	}

	return r
}
