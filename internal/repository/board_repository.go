package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts the board and its membership rows in one transaction.
func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return conflictOnDuplicate(err, "Board with title %s already exist", board.Title)
		}
		return insertMembers(tx, board)
	})
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil to indicate that the board was not found
		}
		return nil, err
	}

	var members []model.BoardMember
	if err := r.db.WithContext(ctx).Where("board_id = ?", id).Order("created_at").Find(&members).Error; err != nil {
		return nil, err
	}
	board.SetMembers(members)
	return &board, nil
}

// FindByTitle matches case-insensitively. Membership is not loaded.
func (r *BoardRepository) FindByTitle(ctx context.Context, title string) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).Where("LOWER(title) = LOWER(?)", title).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) List(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	if err := r.db.WithContext(ctx).Order("created_at").Find(&boards).Error; err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return boards, nil
	}

	ids := make([]uuid.UUID, len(boards))
	for i := range boards {
		ids[i] = boards[i].ID
	}
	var members []model.BoardMember
	if err := r.db.WithContext(ctx).Where("board_id IN ?", ids).Order("created_at").Find(&members).Error; err != nil {
		return nil, err
	}

	byBoard := make(map[uuid.UUID][]model.BoardMember, len(boards))
	for _, m := range members {
		byBoard[m.BoardID] = append(byBoard[m.BoardID], m)
	}
	for i := range boards {
		boards[i].SetMembers(byBoard[boards[i].ID])
	}
	return boards, nil
}

// Update saves the board row and rewrites its membership. Concurrent updates
// are last-writer-wins.
func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(board).Error; err != nil {
			return conflictOnDuplicate(err, "Board with title %s already exist", board.Title)
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&model.BoardMember{}).Error; err != nil {
			return err
		}
		return insertMembers(tx, board)
	})
}

// Delete removes the board; membership rows go with it through ON DELETE CASCADE.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func insertMembers(tx *gorm.DB, board *model.Board) error {
	members := board.Members()
	if len(members) == 0 {
		return nil
	}
	return tx.Create(&members).Error
}
