package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, in service.LoginInput) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in service.ResetPasswordInput) error
}

type BoardService interface {
	List(ctx context.Context) ([]service.BoardView, error)
	Get(ctx context.Context, id uuid.UUID) (*service.BoardView, error)
	Create(ctx context.Context, caller uuid.UUID, in service.CreateBoardInput) (*service.BoardView, error)
	Update(ctx context.Context, id, caller uuid.UUID, in service.UpdateBoardInput) (*service.BoardView, error)
	UpdateAdmins(ctx context.Context, id, caller uuid.UUID, ids []uuid.UUID) (*service.BoardView, error)
	UpdateUsers(ctx context.Context, id, caller uuid.UUID, ids []uuid.UUID) (*service.BoardView, error)
	Leave(ctx context.Context, id, caller uuid.UUID) (string, error)
	Delete(ctx context.Context, id, caller uuid.UUID) (string, error)
	Access(ctx context.Context, id, caller uuid.UUID, password string) (bool, error)
}

type NoteService interface {
	List(ctx context.Context, boardID *uuid.UUID) ([]service.NoteView, error)
	Get(ctx context.Context, id uuid.UUID) (*service.NoteView, error)
	Create(ctx context.Context, caller uuid.UUID, in service.CreateNoteInput) (*service.NoteView, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateNoteInput) (*service.NoteView, error)
	UpdateUsers(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*service.NoteView, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
}

type UserService interface {
	List(ctx context.Context) ([]service.UserView, error)
	Get(ctx context.Context, id uuid.UUID) (*service.UserView, error)
	UpdateSelf(ctx context.Context, caller uuid.UUID, in service.UpdateUserInput) (*service.UserView, error)
}

type UploadService interface {
	UploadUserImage(ctx context.Context, caller uuid.UUID, r io.Reader) (string, error)
}

// MessageResponse is the body of every error and of most acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError writes err as {"message": ...}. Errors without a client-facing
// kind are logged and hidden behind the generic 500 body.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, MessageResponse{Message: middleware.InternalErrorMessage})
		return
	}
	var appErr *apperr.Error
	errors.As(err, &appErr)
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), MessageResponse{Message: appErr.Message})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, MessageResponse{Message: msg})
}

// caller returns the authenticated user id or writes 401.
func caller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, MessageResponse{Message: "Invalid token"})
	}
	return id, ok
}

// pathID parses the :id route parameter or writes 400.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid id format")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}
