// Package service holds the business rules of the board API. Services validate
// input, authorize the caller against board membership and persist through the
// repository interfaces below.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/apperr"
	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/validation"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type BoardRepository interface {
	Create(ctx context.Context, board *model.Board) error
	Update(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	FindByTitle(ctx context.Context, title string) (*model.Board, error)
	List(ctx context.Context) ([]model.Board, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	Update(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error)
	FindByTitle(ctx context.Context, boardID uuid.UUID, title string) (*model.Note, error)
	List(ctx context.Context, boardID *uuid.UUID) ([]model.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBoard(ctx context.Context, boardID uuid.UUID) (int64, error)
}

func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		return apperr.BadRequest(err.Error())
	}
	return nil
}

// checkDates rejects a range whose start is not strictly before its end.
func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && !start.Before(*end) {
		return apperr.BadRequest("Invalid dates")
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil && !model.ContainsID(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// resolveUsers keeps the ids that belong to existing users, in request order.
func resolveUsers(ctx context.Context, users UserRepository, ids []uuid.UUID) ([]uuid.UUID, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, u := range found {
		known[u.ID] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(found))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// hashPassword turns bcrypt's length limit into a client error. The validate
// tags count runes, so multi-byte input can still exceed 72 bytes.
func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperr.BadRequest("Password must be at most 72 bytes")
	}
	return hash, err
}
