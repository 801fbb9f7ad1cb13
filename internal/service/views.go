package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

// UserView is a user as returned to clients; hashes and tokens stay behind.
type UserView struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Image      string    `json:"image,omitempty"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewUserView(u *model.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Image:      u.Image,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type BoardView struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Completed   bool                `json:"completed"`
	StartDate   *time.Time          `json:"startDate"`
	EndDate     *time.Time          `json:"endDate"`
	Private     bool                `json:"private"`
	Admins      []model.UserSummary `json:"admins"`
	Users       []model.UserSummary `json:"users"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type NoteView struct {
	ID        uuid.UUID        `json:"id"`
	BoardID   uuid.UUID        `json:"boardId"`
	CreatorID uuid.UUID        `json:"creatorId"`
	Title     string           `json:"title"`
	Text      string           `json:"text"`
	Status    model.NoteStatus `json:"status"`
	StartDate *time.Time       `json:"startDate"`
	EndDate   *time.Time       `json:"endDate"`
	Assignees []uuid.UUID      `json:"assignees"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func NewNoteView(n *model.Note) NoteView {
	assignees := n.Assignees
	if assignees == nil {
		assignees = []uuid.UUID{}
	}
	return NoteView{
		ID:        n.ID,
		BoardID:   n.BoardID,
		CreatorID: n.CreatorID,
		Title:     n.Title,
		Text:      n.Text,
		Status:    n.Status,
		StartDate: n.StartDate,
		EndDate:   n.EndDate,
		Assignees: assignees,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// boardViews populates member summaries for boards with one user lookup.
func boardViews(ctx context.Context, users UserRepository, boards ...model.Board) ([]BoardView, error) {
	var ids []uuid.UUID
	for i := range boards {
		ids = append(ids, boards[i].Admins...)
		ids = append(ids, boards[i].Users...)
	}

	summaries := make(map[uuid.UUID]model.UserSummary)
	if ids = uniqueIDs(ids); len(ids) > 0 {
		found, err := users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("find board members: %w", err)
		}
		for i := range found {
			summaries[found[i].ID] = found[i].Summary()
		}
	}

	pick := func(ids []uuid.UUID) []model.UserSummary {
		out := make([]model.UserSummary, 0, len(ids))
		for _, id := range ids {
			if s, ok := summaries[id]; ok {
				out = append(out, s)
			}
		}
		return out
	}

	views := make([]BoardView, len(boards))
	for i := range boards {
		b := &boards[i]
		views[i] = BoardView{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			Completed:   b.Completed,
			StartDate:   b.StartDate,
			EndDate:     b.EndDate,
			Private:     b.Private,
			Admins:      pick(b.Admins),
			Users:       pick(b.Users),
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		}
	}
	return views, nil
}

func boardView(ctx context.Context, users UserRepository, b *model.Board) (*BoardView, error) {
	views, err := boardViews(ctx, users, *b)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
