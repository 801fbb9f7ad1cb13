package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/mailer"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/storage"
)

const uploadsPath = "/uploads"

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
	Logger *logrus.Logger
}

func Init(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.Open(cfg.Database.DSN(), logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, logger); err != nil {
		return nil, err
	}

	ctx := context.Background()
	rdb := openRedis(ctx, cfg.Redis, logger)

	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	mail := mailer.NewSMTPMailer(cfg.Mail, logger)

	authService := service.NewAuthService(userRepo, tokens, mail, cfg.Auth.ResetTTL, logger)
	userService := service.NewUserService(userRepo, logger)
	boardService := service.NewBoardService(boardRepo, noteRepo, userRepo, logger)
	noteService := service.NewNoteService(noteRepo, boardRepo, userRepo, logger)
	uploadService := service.NewUploadService(userRepo, store, cfg.Upload.MaxSize, logger)

	handlers := Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Secure: cfg.Auth.CookieSecure,
			MaxAge: cfg.Auth.RefreshTTL,
		}, logger),
		Boards: handler.NewBoardHandler(boardService, logger),
		Notes:  handler.NewNoteHandler(noteService, logger),
		Users:  handler.NewUserHandler(userService, uploadService, logger),
	}

	r := NewRouter(cfg, logger, handlers, tokens, rdb)
	if cfg.Upload.Driver == config.UploadDriverLocal {
		r.Static(uploadsPath, cfg.Upload.LocalDir)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Redis:  rdb,
		Config: cfg,
		Logger: logger,
	}, nil
}

// openRedis returns nil when no address is configured or the server does not answer,
// which turns rate limiting off.
func openRedis(ctx context.Context, cfg config.RedisConfig, logger logrus.FieldLogger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("redis not configured, rate limiting disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warnf("redis at %s unreachable, rate limiting disabled", cfg.Addr)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to redis at %s", cfg.Addr)
	return client
}

func buildStorage(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (storage.ImageStore, error) {
	if cfg.Upload.Driver == config.UploadDriverLocal {
		store, err := storage.NewLocalStore(cfg.Upload.LocalDir, uploadsPath)
		if err != nil {
			return nil, err
		}
		logger.Infof("storing uploads in %s", store.Dir())
		return store, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.Storage.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Store(client, storage.S3Options{
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		KeyPrefix:     cfg.Storage.KeyPrefix,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}), nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      s.Engine,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
	}

	go func() {
		s.Logger.Infof("server running on port %s", s.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatalf("failed to listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Warnf("server forced to shutdown: %v", err)
	}
	s.close()

	s.Logger.Info("server exited properly")
}

func (s *Server) close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.WithError(err).Warn("close redis")
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.Logger.WithError(err).Warn("close database")
		}
	}
}
