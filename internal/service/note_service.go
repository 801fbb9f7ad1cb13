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
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type CreateNoteInput struct {
	BoardID   uuid.UUID   `json:"boardId" validate:"required"`
	Title     string      `json:"title" validate:"required,min=5,max=25"`
	Text      string      `json:"text" validate:"required,min=5,max=100"`
	Status    string      `json:"status"`
	StartDate *time.Time  `json:"startDate"`
	EndDate   *time.Time  `json:"endDate"`
	Assignees []uuid.UUID `json:"assignees"`
}

type UpdateNoteInput struct {
	Title     *string            `json:"title" validate:"omitempty,min=5,max=25"`
	Text      *string            `json:"text" validate:"omitempty,min=5,max=100"`
	Status    *string            `json:"status"`
	StartDate model.OptionalTime `json:"startDate" swaggertype:"string" format:"date-time"`
	EndDate   model.OptionalTime `json:"endDate" swaggertype:"string" format:"date-time"`
	Assignees *[]uuid.UUID       `json:"assignees"`
}

type NoteService struct {
	notes  NoteRepository
	boards BoardRepository
	users  UserRepository
	logger logrus.FieldLogger
}

func NewNoteService(notes NoteRepository, boards BoardRepository, users UserRepository, logger logrus.FieldLogger) *NoteService {
	return &NoteService{notes: notes, boards: boards, users: users, logger: logger}
}

// List returns every note, or the notes of boardID when given.
func (s *NoteService) List(ctx context.Context, boardID *uuid.UUID) ([]NoteView, error) {
	notes, err := s.notes.List(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	views := make([]NoteView, len(notes))
	for i := range notes {
		views[i] = NewNoteView(&notes[i])
	}
	return views, nil
}

func (s *NoteService) Get(ctx context.Context, id uuid.UUID) (*NoteView, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewNoteView(note)
	return &v, nil
}

func (s *NoteService) Create(ctx context.Context, caller uuid.UUID, in CreateNoteInput) (*NoteView, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)
	if err := validate(in); err != nil {
		return nil, err
	}

	status := model.StatusToDo
	if in.Status != "" {
		st, err := parseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}
	if err := model.ValidateNoteStatus(status, in.StartDate, in.EndDate); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	board, err := s.boards.GetByID(ctx, in.BoardID)
	if err != nil {
		return nil, fmt.Errorf("find board: %w", err)
	}
	if board == nil {
		return nil, apperr.NotFound(fmt.Sprintf("No board with id: %s", in.BoardID))
	}

	assignees, err := s.assignees(ctx, in.Assignees)
	if err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, board.ID, in.Title, uuid.Nil); err != nil {
		return nil, err
	}

	note := &model.Note{
		ID:        uuid.New(),
		BoardID:   board.ID,
		CreatorID: caller,
		Title:     in.Title,
		Text:      in.Text,
		Status:    status,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Assignees: assignees,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"note_id": note.ID, "board_id": board.ID, "user_id": caller}).Info("note created")
	v := NewNoteView(note)
	return &v, nil
}

// Update applies a partial patch. The status/date rule is checked against the
// merged note whenever the patch touches status or either date.
func (s *NoteService) Update(ctx context.Context, id uuid.UUID, in UpdateNoteInput) (*NoteView, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if in.Text != nil {
		trimmed := strings.TrimSpace(*in.Text)
		in.Text = &trimmed
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title != "" {
		if err := s.checkTitle(ctx, note.BoardID, *in.Title, note.ID); err != nil {
			return nil, err
		}
		note.Title = *in.Title
	}
	if in.Text != nil && *in.Text != "" {
		note.Text = *in.Text
	}

	if in.Status != nil || in.StartDate.Set || in.EndDate.Set {
		status := note.Status
		if in.Status != nil {
			if status, err = parseStatus(*in.Status); err != nil {
				return nil, err
			}
		}
		start, end := in.StartDate.Or(note.StartDate), in.EndDate.Or(note.EndDate)
		if err := model.ValidateNoteStatus(status, start, end); err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		note.Status, note.StartDate, note.EndDate = status, start, end
	}

	if in.Assignees != nil {
		assignees, err := s.assignees(ctx, *in.Assignees)
		if err != nil {
			return nil, err
		}
		note.Assignees = assignees
	}

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.logger.WithField("note_id", note.ID).Info("note updated")
	v := NewNoteView(note)
	return &v, nil
}

// UpdateUsers replaces the assignees wholesale; unknown ids are dropped.
func (s *NoteService) UpdateUsers(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*NoteView, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Assignees, err = resolveUsers(ctx, s.users, ids); err != nil {
		return nil, err
	}

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note users: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"note_id": note.ID, "assignees": len(note.Assignees)}).Info("note assignees updated")
	v := NewNoteView(note)
	return &v, nil
}

// Delete removes the note and returns its title.
func (s *NoteService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return "", apperr.NotFound(fmt.Sprintf("No note with id: %s", id))
		}
		return "", fmt.Errorf("delete note: %w", err)
	}

	s.logger.WithField("note_id", id).Info("note deleted")
	return note.Title, nil
}

func (s *NoteService) find(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find note: %w", err)
	}
	if note == nil {
		return nil, apperr.NotFound(fmt.Sprintf("No note with id: %s", id))
	}
	return note, nil
}

// assignees resolves requested ids; a non-empty request matching nobody is NotFound.
func (s *NoteService) assignees(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resolved, err := resolveUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, apperr.NotFound("Users not found")
	}
	return resolved, nil
}

func (s *NoteService) checkTitle(ctx context.Context, boardID uuid.UUID, title string, self uuid.UUID) error {
	dup, err := s.notes.FindByTitle(ctx, boardID, title)
	if err != nil {
		return fmt.Errorf("find note by title: %w", err)
	}
	if dup != nil && dup.ID != self {
		return apperr.Conflict(fmt.Sprintf("Note title %s already taken", title))
	}
	return nil
}

func parseStatus(raw string) (model.NoteStatus, error) {
	st, err := model.ParseNoteStatus(strings.TrimSpace(raw))
	if err != nil {
		return "", apperr.BadRequest(fmt.Sprintf("Invalid note status %q", raw))
	}
	return st, nil
}
