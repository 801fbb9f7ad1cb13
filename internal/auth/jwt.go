package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Identity is the minimal caller identity carried by both token kinds.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

type claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// TokenManager signs and verifies the short-lived access token and the
// long-lived refresh token. Each kind has its own secret so one can never be
// replayed as the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *TokenManager) GenerateAccessToken(id Identity) (string, error) {
	return m.sign(id, m.accessSecret, m.accessTTL)
}

func (m *TokenManager) GenerateRefreshToken(id Identity) (string, error) {
	return m.sign(id, m.refreshSecret, m.refreshTTL)
}

func (m *TokenManager) ParseAccessToken(token string) (Identity, error) {
	return m.parse(token, m.accessSecret)
}

func (m *TokenManager) ParseRefreshToken(token string) (Identity, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *TokenManager) sign(id Identity, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   id.UserID.String(),
		Username: id.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(secret)
}

func (m *TokenManager) parse(tokenStr string, secret []byte) (Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if c.UserID == "" {
		return Identity{}, ErrInvalidClaims
	}
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return Identity{}, ErrInvalidClaims
	}
	return Identity{UserID: uid, Username: c.Username}, nil
}
