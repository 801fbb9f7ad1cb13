package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/apperr"
	"taskboard/internal/auth"
	"taskboard/internal/mailer"
	"taskboard/internal/model"
	"taskboard/internal/validation"
)

const (
	verificationTokenBytes = 40
	resetTokenBytes        = 70
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is what a successful register or login hands back to the transport.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         UserView
}

type AuthService struct {
	users    UserRepository
	tokens   *auth.TokenManager
	mail     mailer.Mailer
	resetTTL time.Duration
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewAuthService(users UserRepository, tokens *auth.TokenManager, mail mailer.Mailer, resetTTL time.Duration, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mail:     mail,
		resetTTL: resetTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.BadRequest("Please provide all fields")
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	byName, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	byEmail, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if byName != nil || byEmail != nil {
		return nil, apperr.Conflict("Username or email already exist")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	verification, err := auth.RandomToken(verificationTokenBytes)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:                uuid.New(),
		Username:          in.Username,
		Email:             in.Email,
		HashedPassword:    hash,
		VerificationToken: verification,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" && in.Email == "" {
		return nil, apperr.BadRequest("Please provide all fields")
	}

	var (
		user *model.User
		err  error
	)
	if in.Email != "" {
		user, err = s.users.FindByEmail(ctx, in.Email)
	} else {
		user, err = s.users.FindByUsername(ctx, in.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || in.Password == "" || !auth.CheckPassword(user.HashedPassword, in.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	s.logger.WithField("user_id", user.ID).Debug("user logged in")
	return s.issue(user)
}

// Refresh mints a new access token from a refresh token. The identity is
// re-read from the store so renamed users get their current username.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperr.Unauthorized("Unauthorized")
	}
	id, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.Forbidden("Invalid token")
	}

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return "", apperr.Unauthorized("Invalid token. Please login")
	}

	return s.tokens.GenerateAccessToken(auth.Identity{UserID: user.ID, Username: user.Username})
}

// ForgotPassword stores a hashed reset token and mails the raw one. Unknown
// addresses are not reported.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Var("email", email, "required,email"); err != nil {
		return apperr.BadRequest("Please provide a valid email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := auth.RandomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	expires := s.now().Add(s.resetTTL)
	user.PasswordToken = auth.HashToken(token)
	user.PasswordTokenExpiresAt = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	log := s.logger.WithField("user_id", user.ID)
	if err := s.mail.SendPasswordReset(ctx, user.Email, user.Username, token); err != nil {
		log.WithError(err).Error("failed to send reset password email")
		return nil
	}
	log.Info("reset password requested")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if in.Token == "" || in.Email == "" || in.Password == "" {
		return apperr.BadRequest("Please provide all fields")
	}
	if err := validation.Var("password", in.Password, "min=6,max=72"); err != nil {
		return apperr.BadRequest(err.Error())
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		return nil
	}

	if user.PasswordTokenExpiresAt != nil && user.PasswordTokenExpiresAt.Before(s.now()) {
		return apperr.BadRequest("Password request link has expired. Please try again")
	}
	if !auth.TokenMatches(in.Token, user.PasswordToken) {
		return nil
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	user.PasswordToken = ""
	user.PasswordTokenExpiresAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("password reset")
	return nil
}

func (s *AuthService) issue(user *model.User) (*Session, error) {
	id := auth.Identity{UserID: user.ID, Username: user.Username}
	access, err := s.tokens.GenerateAccessToken(id)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: NewUserView(user)}, nil
}
