package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username               string    `gorm:"not null"`
	Email                  string    `gorm:"not null"`
	HashedPassword         string    `gorm:"not null"`
	Image                  string
	VerificationToken      string
	IsVerified             bool
	VerifiedAt             *time.Time
	PasswordToken          string
	PasswordTokenExpiresAt *time.Time
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

// UserSummary is the public projection of a user embedded in board responses.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Image    string    `json:"image,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Image: u.Image}
}
