package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create adds a new note and its assignees
func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return conflictOnDuplicate(err, "Note title %s already taken", note.Title)
		}
		return insertAssignees(tx, note)
	})
}

// GetByID retrieves a note by its ID, nil when absent
func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	var note model.Note
	result := r.db.WithContext(ctx).First(&note, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	notes := []model.Note{note}
	if err := r.loadAssignees(ctx, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// List retrieves all notes, or only the notes of boardID when it is set
func (r *NoteRepository) List(ctx context.Context, boardID *uuid.UUID) ([]model.Note, error) {
	var notes []model.Note
	q := r.db.WithContext(ctx).Order("created_at")
	if boardID != nil {
		q = q.Where("board_id = ?", *boardID)
	}
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}
	if err := r.loadAssignees(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// FindByTitle looks for a note with the same title (case-insensitive) on a board
func (r *NoteRepository) FindByTitle(ctx context.Context, boardID uuid.UUID, title string) (*model.Note, error) {
	var note model.Note
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND LOWER(title) = LOWER(?)", boardID, title).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Update saves the note and replaces its assignees
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(note).Error; err != nil {
			return conflictOnDuplicate(err, "Note title %s already taken", note.Title)
		}
		if err := tx.Where("note_id = ?", note.ID).Delete(&model.NoteAssignee{}).Error; err != nil {
			return err
		}
		return insertAssignees(tx, note)
	})
}

// Delete removes a note by its ID
func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Note{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// DeleteByBoard removes every note of a board and reports how many went
func (r *NoteRepository) DeleteByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&model.Note{})
	return result.RowsAffected, result.Error
}

func (r *NoteRepository) loadAssignees(ctx context.Context, notes []model.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
	}

	var rows []model.NoteAssignee
	if err := r.db.WithContext(ctx).Where("note_id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}

	byNote := make(map[uuid.UUID][]uuid.UUID, len(notes))
	for _, row := range rows {
		byNote[row.NoteID] = append(byNote[row.NoteID], row.UserID)
	}
	for i := range notes {
		notes[i].Assignees = byNote[notes[i].ID]
	}
	return nil
}

func insertAssignees(tx *gorm.DB, note *model.Note) error {
	if len(note.Assignees) == 0 {
		return nil
	}
	rows := make([]model.NoteAssignee, len(note.Assignees))
	for i, uid := range note.Assignees {
		rows[i] = model.NoteAssignee{NoteID: note.ID, UserID: uid}
	}
	return tx.Create(&rows).Error
}
