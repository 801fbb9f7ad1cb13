package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/apperr"
	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type CreateBoardInput struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Description string     `json:"description" validate:"required,max=500"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Password    string     `json:"password" validate:"omitempty,min=6,max=72"`
}

type UpdateBoardInput struct {
	Title       *string            `json:"title" validate:"omitempty,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=500"`
	Completed   *bool              `json:"completed"`
	StartDate   model.OptionalTime `json:"startDate" swaggertype:"string" format:"date-time"`
	EndDate     model.OptionalTime `json:"endDate" swaggertype:"string" format:"date-time"`
	OldPassword string             `json:"oldPassword"`
	NewPassword string             `json:"newPassword" validate:"omitempty,min=6,max=72"`
}

type BoardService struct {
	boards BoardRepository
	notes  NoteRepository
	users  UserRepository
	logger logrus.FieldLogger
}

func NewBoardService(boards BoardRepository, notes NoteRepository, users UserRepository, logger logrus.FieldLogger) *BoardService {
	return &BoardService{boards: boards, notes: notes, users: users, logger: logger}
}

func (s *BoardService) List(ctx context.Context) ([]BoardView, error) {
	boards, err := s.boards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boardViews(ctx, s.users, boards...)
}

func (s *BoardService) Get(ctx context.Context, id uuid.UUID) (*BoardView, error) {
	board, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return boardView(ctx, s.users, board)
}

// Create makes caller the sole admin of a new board. A password makes it private.
func (s *BoardService) Create(ctx context.Context, caller uuid.UUID, in CreateBoardInput) (*BoardView, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, in.Title, uuid.Nil); err != nil {
		return nil, err
	}

	board := &model.Board{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Admins:      []uuid.UUID{caller},
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		board.HashedPassword = hash
		board.Private = true
	}

	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller}).Info("board created")
	return boardView(ctx, s.users, board)
}

func (s *BoardService) Update(ctx context.Context, id, caller uuid.UUID, in UpdateBoardInput) (*BoardView, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	board, err := s.findAsAdmin(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	start, end := in.StartDate.Or(board.StartDate), in.EndDate.Or(board.EndDate)
	if err := checkDates(start, end); err != nil {
		return nil, err
	}
	board.StartDate, board.EndDate = start, end

	if in.Title != nil && *in.Title != "" {
		if err := s.checkTitle(ctx, *in.Title, board.ID); err != nil {
			return nil, err
		}
		board.Title = *in.Title
	}
	if in.Description != nil {
		board.Description = strings.TrimSpace(*in.Description)
	}
	if in.Completed != nil {
		board.Completed = *in.Completed
	}

	if err := applyBoardPassword(board, in.OldPassword, in.NewPassword); err != nil {
		return nil, err
	}

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("update board: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller}).Info("board updated")
	return boardView(ctx, s.users, board)
}

// applyBoardPassword implements the password transitions:
// public + new sets it; private + old verifies then replaces or clears;
// private + new without old is rejected.
func applyBoardPassword(board *model.Board, oldPassword, newPassword string) error {
	switch {
	case !board.Private:
		if newPassword == "" {
			return nil
		}
		hash, err := hashPassword(newPassword)
		if err != nil {
			return err
		}
		board.HashedPassword = hash
		board.Private = true

	case oldPassword != "":
		if !auth.CheckPassword(board.HashedPassword, oldPassword) {
			return apperr.Unauthorized("Invalid board password")
		}
		if newPassword == "" {
			board.HashedPassword = ""
			board.Private = false
			return nil
		}
		hash, err := hashPassword(newPassword)
		if err != nil {
			return err
		}
		board.HashedPassword = hash

	case newPassword != "":
		return apperr.BadRequest("Please provide the old board password")
	}
	return nil
}

// UpdateAdmins replaces the admin set with the ids that resolve to users.
// Promoted users leave the user list and dropped admins become users.
func (s *BoardService) UpdateAdmins(ctx context.Context, id, caller uuid.UUID, ids []uuid.UUID) (*BoardView, error) {
	board, err := s.findAsAdmin(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	admins, err := resolveUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, apperr.NotFound("Admins not found")
	}

	users := make([]uuid.UUID, 0, len(board.Users)+len(board.Admins))
	for _, u := range board.Users {
		if !model.ContainsID(admins, u) {
			users = append(users, u)
		}
	}
	for _, a := range board.Admins {
		if !model.ContainsID(admins, a) && !model.ContainsID(users, a) {
			users = append(users, a)
		}
	}
	board.Admins, board.Users = admins, users

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("update board admins: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller, "admins": len(admins)}).Info("board admins updated")
	return boardView(ctx, s.users, board)
}

// UpdateUsers replaces the user set. Ids that are admins are skipped.
func (s *BoardService) UpdateUsers(ctx context.Context, id, caller uuid.UUID, ids []uuid.UUID) (*BoardView, error) {
	board, err := s.findAsAdmin(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	users := make([]uuid.UUID, 0, len(resolved))
	for _, u := range resolved {
		if !model.ContainsID(board.Admins, u) {
			users = append(users, u)
		}
	}
	board.Users = users

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("update board users: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller, "users": len(users)}).Info("board users updated")
	return boardView(ctx, s.users, board)
}

// Leave removes caller from the board and returns its title. The last admin
// cannot leave.
func (s *BoardService) Leave(ctx context.Context, id, caller uuid.UUID) (string, error) {
	board, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}

	switch {
	case model.IsBoardAdmin(board, caller):
		if len(board.Admins) == 1 {
			return "", apperr.BadRequest("The last admin cannot leave the board. Promote another admin or delete the board")
		}
		board.Admins = model.RemoveID(board.Admins, caller)
	case model.ContainsID(board.Users, caller):
		board.Users = model.RemoveID(board.Users, caller)
	default:
		return board.Title, nil
	}

	if err := s.boards.Update(ctx, board); err != nil {
		return "", fmt.Errorf("leave board: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller}).Info("user left board")
	return board.Title, nil
}

// Delete removes the board's notes, then the board. A failure deleting notes
// leaves the board in place.
func (s *BoardService) Delete(ctx context.Context, id, caller uuid.UUID) (string, error) {
	board, err := s.findAsAdmin(ctx, id, caller)
	if err != nil {
		return "", err
	}

	deleted, err := s.notes.DeleteByBoard(ctx, board.ID)
	if err != nil {
		return "", fmt.Errorf("delete board notes: %w", err)
	}

	if err := s.boards.Delete(ctx, board.ID); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return "", apperr.NotFound(fmt.Sprintf("No board with id: %s", id))
		}
		return "", fmt.Errorf("delete board: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller, "notes": deleted}).Info("board deleted")
	return board.Title, nil
}

// Access joins caller to the board as a user. It reports false when caller was
// already a member.
func (s *BoardService) Access(ctx context.Context, id, caller uuid.UUID, password string) (bool, error) {
	board, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}
	if model.IsBoardMember(board, caller) {
		return false, nil
	}

	if board.Private {
		if password == "" {
			return false, apperr.Unauthorized("Please provide board password")
		}
		if !auth.CheckPassword(board.HashedPassword, password) {
			return false, apperr.Unauthorized("Invalid credentials")
		}
	}

	board.Users = append(board.Users, caller)
	if err := s.boards.Update(ctx, board); err != nil {
		return false, fmt.Errorf("access board: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"board_id": board.ID, "user_id": caller}).Info("user joined board")
	return true, nil
}

func (s *BoardService) find(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find board: %w", err)
	}
	if board == nil {
		return nil, apperr.NotFound(fmt.Sprintf("No board with id: %s", id))
	}
	return board, nil
}

func (s *BoardService) findAsAdmin(ctx context.Context, id, caller uuid.UUID) (*model.Board, error) {
	board, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsBoardAdmin(board, caller) {
		return nil, apperr.Unauthorized(fmt.Sprintf("User is not an admin: %s", caller))
	}
	return board, nil
}

func (s *BoardService) checkTitle(ctx context.Context, title string, self uuid.UUID) error {
	dup, err := s.boards.FindByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("find board by title: %w", err)
	}
	if dup != nil && dup.ID != self {
		return apperr.Conflict(fmt.Sprintf("Board with title %s already exist", title))
	}
	return nil
}
