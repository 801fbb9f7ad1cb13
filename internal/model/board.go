package model

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title          string    `gorm:"not null"`
	Description    string    `gorm:"not null"`
	Completed      bool
	StartDate      *time.Time
	EndDate        *time.Time
	HashedPassword string
	Private        bool
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	// Membership lives in board_members; repositories fill these on load and
	// rewrite the rows on save.
	Admins []uuid.UUID `gorm:"-"`
	Users  []uuid.UUID `gorm:"-"`
}

// BoardMember links a user to a board with a single role. The composite primary
// key guarantees a user is never both admin and user of the same board.
type BoardMember struct {
	BoardID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Board roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Members flattens Admins and Users into membership rows.
func (b *Board) Members() []BoardMember {
	members := make([]BoardMember, 0, len(b.Admins)+len(b.Users))
	for _, id := range b.Admins {
		members = append(members, BoardMember{BoardID: b.ID, UserID: id, Role: RoleAdmin})
	}
	for _, id := range b.Users {
		members = append(members, BoardMember{BoardID: b.ID, UserID: id, Role: RoleUser})
	}
	return members
}

// SetMembers splits membership rows back into Admins and Users.
func (b *Board) SetMembers(members []BoardMember) {
	b.Admins, b.Users = nil, nil
	for _, m := range members {
		switch m.Role {
		case RoleAdmin:
			b.Admins = append(b.Admins, m.UserID)
		default:
			b.Users = append(b.Users, m.UserID)
		}
	}
}
