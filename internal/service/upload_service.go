package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/apperr"
	"taskboard/internal/storage"
)

type UploadService struct {
	users   UserRepository
	store   storage.ImageStore
	maxSize int64
	logger  logrus.FieldLogger
}

func NewUploadService(users UserRepository, store storage.ImageStore, maxSize int64, logger logrus.FieldLogger) *UploadService {
	return &UploadService{users: users, store: store, maxSize: maxSize, logger: logger}
}

// UploadUserImage stores r as the caller's profile picture and returns its URL.
// The content type is sniffed from the bytes, never taken from the client.
func (s *UploadService) UploadUserImage(ctx context.Context, caller uuid.UUID, r io.Reader) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(buf) == 0 {
		return "", apperr.BadRequest("No file uploaded")
	}
	if int64(len(buf)) > s.maxSize {
		return "", apperr.BadRequest(fmt.Sprintf("Please upload image smaller than %dKB", s.maxSize/1024))
	}

	mt := mimetype.Detect(buf)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", apperr.BadRequest("Please upload an image")
	}

	user, err := s.users.GetByID(ctx, caller)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return "", apperr.NotFound("User not found")
	}

	url, err := s.store.Save(ctx, caller.String()+mt.Extension(), mt.String(), bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	user.Image = url
	if err := s.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("save user image: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": caller, "mime": mt.String(), "bytes": len(buf)}).Info("profile image uploaded")
	return url, nil
}
