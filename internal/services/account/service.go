// Package account implements registration, login, and refresh token
// rotation.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/db/models"
	"github.com/kusitms-com/meetupd/internal/errcode"
	"github.com/kusitms-com/meetupd/internal/repository"
	"github.com/kusitms-com/meetupd/internal/telemetry"
	"github.com/kusitms-com/meetupd/internal/tokenstore"
)

const tracerName = "meetupd/services/account"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// TokenIssuer issues and verifies token pairs.
type TokenIssuer interface {
	IssuePair(userID int64) (*auth.TokenPair, error)
	ValidateRefreshToken(token string) (int64, error)
	RefreshTTL() time.Duration
}

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Email    string
	Password string
	Username string
}

// Session is the result of a successful register, login, or reissue.
type Session struct {
	UserID   int64
	Username string
	Tokens   *auth.TokenPair
}

// Service orchestrates account lifecycle operations.
type Service struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	store      tokenstore.Store
	bcryptCost int
}

// NewService constructs a new Service instance.
func NewService(users repository.UserRepository, tokens TokenIssuer, store tokenstore.Store) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the password hashing cost.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "account.Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegister(in); err != nil {
		return nil, errcode.Wrap(errcode.InvalidRequest, err)
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, errcode.New(errcode.DuplicateEmail)
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Username:     in.Username,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, errcode.Wrap(errcode.DuplicateEmail, err)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	span.SetAttributes(attribute.Int64(telemetry.AttrUserID, user.ID))

	return s.startSession(ctx, user)
}

// Login verifies credentials and signs the user in.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "account.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errcode.New(errcode.InvalidLogin)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errcode.New(errcode.InvalidLogin)
	}
	span.SetAttributes(attribute.Int64(telemetry.AttrUserID, user.ID))

	return s.startSession(ctx, user)
}

// Reissue exchanges a valid, current refresh token for a new pair. The
// presented token stops working once the new one is stored.
func (s *Service) Reissue(ctx context.Context, refreshToken string) (*Session, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "account.Reissue")
	defer span.End()

	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64(telemetry.AttrUserID, userID))

	stored, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, errcode.Wrap(errcode.InvalidRefreshToken, err)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if stored != refreshToken {
		return nil, errcode.New(errcode.InvalidRefreshToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errcode.Wrap(errcode.UserNotFound, err)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.startSession(ctx, user)
}

// Logout forgets the user's refresh token.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "account.Logout",
		attribute.Int64(telemetry.AttrUserID, userID),
	)
	defer span.End()

	if err := s.store.Delete(ctx, userID); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, user *models.User) (*Session, error) {
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.store.Save(ctx, user.ID, pair.RefreshToken, s.tokens.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{UserID: user.ID, Username: user.Username, Tokens: pair}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("email is invalid: %w", err)
	}
	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(in.Password) > 72 {
		return errors.New("password must be at most 72 bytes")
	}
	if in.Username == "" {
		return errors.New("username is required")
	}
	return nil
}
