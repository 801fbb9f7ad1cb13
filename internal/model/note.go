package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NoteStatus string

// Note statuses in workflow order
const (
	StatusToDo       NoteStatus = "To-do"
	StatusInProgress NoteStatus = "In-Progress"
	StatusTesting    NoteStatus = "Testing"
	StatusDone       NoteStatus = "Done"
)

var NoteStatuses = []NoteStatus{StatusToDo, StatusInProgress, StatusTesting, StatusDone}

var ErrUnknownStatus = errors.New("unknown note status")

func ParseNoteStatus(s string) (NoteStatus, error) {
	for _, st := range NoteStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

type Note struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatorID uuid.UUID  `gorm:"type:uuid;not null"`
	Title     string     `gorm:"not null"`
	Text      string     `gorm:"not null"`
	Status    NoteStatus `gorm:"type:text;not null"`
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Assignees []uuid.UUID `gorm:"-"`
}

type NoteAssignee struct {
	NoteID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// ValidateNoteStatus checks the status/date table:
//
//	To-do                 no start, no end
//	In-Progress, Testing  start, no end
//	Done                  start and end
func ValidateNoteStatus(status NoteStatus, start, end *time.Time) error {
	switch status {
	case StatusToDo:
		if start != nil || end != nil {
			return fmt.Errorf("status %s requires no start and end date", status)
		}
	case StatusInProgress, StatusTesting:
		if start == nil || end != nil {
			return fmt.Errorf("status %s requires a start date and no end date", status)
		}
	case StatusDone:
		if start == nil || end == nil {
			return fmt.Errorf("status %s requires a start and an end date", status)
		}
		if end.Before(*start) {
			return errors.New("end date cannot be before start date")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return nil
}
