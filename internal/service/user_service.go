package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/apperr"
	"taskboard/internal/auth"
	"taskboard/internal/validation"
)

type UpdateUserInput struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=30"`
	Email       *string `json:"email" validate:"omitempty,email"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword"`
}

type UserService struct {
	users  UserRepository
	logger logrus.FieldLogger
}

func NewUserService(users UserRepository, logger logrus.FieldLogger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = NewUserView(&users[i])
	}
	return views, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	v := NewUserView(user)
	return &v, nil
}

// UpdateSelf applies a partial update to the caller's own account.
func (s *UserService) UpdateSelf(ctx context.Context, caller uuid.UUID, in UpdateUserInput) (*UserView, error) {
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("No user with id: %s", caller))
	}

	if in.Email != nil && *in.Email != "" {
		dup, err := s.users.FindByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
		if dup != nil && dup.ID != user.ID {
			return nil, apperr.Conflict(fmt.Sprintf("Email %s already taken", *in.Email))
		}
		user.Email = *in.Email
	}

	if in.Username != nil && *in.Username != "" {
		dup, err := s.users.FindByUsername(ctx, *in.Username)
		if err != nil {
			return nil, fmt.Errorf("find user by username: %w", err)
		}
		if dup != nil && dup.ID != user.ID {
			return nil, apperr.Conflict(fmt.Sprintf("Username %s already taken", *in.Username))
		}
		user.Username = *in.Username
	}

	if in.OldPassword != "" || in.NewPassword != "" {
		if in.OldPassword == "" || in.NewPassword == "" {
			return nil, apperr.BadRequest("Please provide old and new password")
		}
		if err := validation.Var("newPassword", in.NewPassword, "min=6,max=72"); err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		if !auth.CheckPassword(user.HashedPassword, in.OldPassword) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		hash, err := hashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user updated")
	v := NewUserView(user)
	return &v, nil
}
