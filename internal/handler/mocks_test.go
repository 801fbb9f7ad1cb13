package handler_test

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taskboard/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, in service.ResetPasswordInput) error {
	return m.Called(ctx, in).Error(0)
}

type MockBoardService struct{ mock.Mock }

func (m *MockBoardService) board(args mock.Arguments) (*service.BoardView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BoardView), args.Error(1)
}

func (m *MockBoardService) List(ctx context.Context) ([]service.BoardView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BoardView), args.Error(1)
}

func (m *MockBoardService) Get(ctx context.Context, id uuid.UUID) (*service.BoardView, error) {
	return m.board(m.Called(ctx, id))
}

func (m *MockBoardService) Create(ctx context.Context, caller uuid.UUID, in service.CreateBoardInput) (*service.BoardView, error) {
	return m.board(m.Called(ctx, caller, in))
}

func (m *MockBoardService) Update(ctx context.Context, id, caller uuid.UUID, in service.UpdateBoardInput) (*service.BoardView, error) {
	return m.board(m.Called(ctx, id, caller, in))
}

func (m *MockBoardService) UpdateAdmins(ctx context.Context, id, caller uuid.UUID, ids []uuid.UUID) (*service.BoardView, error) {
	return m.board(m.Called(ctx, id, caller, ids))
}

func (m *MockBoardService) UpdateUsers(ctx context.Context, id, caller uuid.UUID, ids []uuid.UUID) (*service.BoardView, error) {
	return m.board(m.Called(ctx, id, caller, ids))
}

func (m *MockBoardService) Leave(ctx context.Context, id, caller uuid.UUID) (string, error) {
	args := m.Called(ctx, id, caller)
	return args.String(0), args.Error(1)
}

func (m *MockBoardService) Delete(ctx context.Context, id, caller uuid.UUID) (string, error) {
	args := m.Called(ctx, id, caller)
	return args.String(0), args.Error(1)
}

func (m *MockBoardService) Access(ctx context.Context, id, caller uuid.UUID, password string) (bool, error) {
	args := m.Called(ctx, id, caller, password)
	return args.Bool(0), args.Error(1)
}

type MockNoteService struct{ mock.Mock }

func (m *MockNoteService) note(args mock.Arguments) (*service.NoteView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NoteView), args.Error(1)
}

func (m *MockNoteService) List(ctx context.Context, boardID *uuid.UUID) ([]service.NoteView, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.NoteView), args.Error(1)
}

func (m *MockNoteService) Get(ctx context.Context, id uuid.UUID) (*service.NoteView, error) {
	return m.note(m.Called(ctx, id))
}

func (m *MockNoteService) Create(ctx context.Context, caller uuid.UUID, in service.CreateNoteInput) (*service.NoteView, error) {
	return m.note(m.Called(ctx, caller, in))
}

func (m *MockNoteService) Update(ctx context.Context, id uuid.UUID, in service.UpdateNoteInput) (*service.NoteView, error) {
	return m.note(m.Called(ctx, id, in))
}

func (m *MockNoteService) UpdateUsers(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*service.NoteView, error) {
	return m.note(m.Called(ctx, id, ids))
}

func (m *MockNoteService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) List(ctx context.Context) ([]service.UserView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UserView), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*service.UserView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserView), args.Error(1)
}

func (m *MockUserService) UpdateSelf(ctx context.Context, caller uuid.UUID, in service.UpdateUserInput) (*service.UserView, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserView), args.Error(1)
}

type MockUploadService struct{ mock.Mock }

func (m *MockUploadService) UploadUserImage(ctx context.Context, caller uuid.UUID, r io.Reader) (string, error) {
	args := m.Called(ctx, caller, r)
	return args.String(0), args.Error(1)
}
