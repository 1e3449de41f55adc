package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kusitms-com/meetupd/internal/errcode"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenProvider validates bearer access tokens and extracts their subject.
// Failures are reported as *errcode.Error values of the unauthorized class.
type TokenProvider interface {
	ValidateAccessToken(token string) error
	Subject(token string) (int64, error)
}

// TokenPair is an access token with its companion refresh token.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Type TokenType `json:"typ"`
}

// JWTProvider issues and validates HS256 signed tokens.
type JWTProvider struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// ProviderOption customises a JWTProvider.
type ProviderOption func(*JWTProvider)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *JWTProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewJWTProvider constructs a provider signing with secret.
func NewJWTProvider(secret, issuer string, accessTTL, refreshTTL time.Duration, opts ...ProviderOption) (*JWTProvider, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if issuer == "" {
		return nil, errors.New("jwt issuer is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	p := &JWTProvider{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// RefreshTTL reports the lifetime of issued refresh tokens.
func (p *JWTProvider) RefreshTTL() time.Duration {
	return p.refreshTTL
}

// IssuePair issues a fresh access and refresh token for userID.
func (p *JWTProvider) IssuePair(userID int64) (*TokenPair, error) {
	access, accessExp, err := p.issue(userID, TokenTypeAccess, p.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := p.issue(userID, TokenTypeRefresh, p.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// IssueAccessToken issues a signed access token for userID.
func (p *JWTProvider) IssueAccessToken(userID int64) (string, error) {
	token, _, err := p.issue(userID, TokenTypeAccess, p.accessTTL)
	return token, err
}

// IssueRefreshToken issues a signed refresh token for userID.
func (p *JWTProvider) IssueRefreshToken(userID int64) (string, error) {
	token, _, err := p.issue(userID, TokenTypeRefresh, p.refreshTTL)
	return token, err
}

func (p *JWTProvider) issue(userID int64, typ TokenType, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.Must(uuid.NewV7()).String(),
		},
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, exp, nil
}

// ValidateAccessToken checks signature, issuer, expiry, and token type.
func (p *JWTProvider) ValidateAccessToken(token string) error {
	_, err := p.parse(token, TokenTypeAccess)
	return err
}

// Subject returns the numeric user id carried by a valid access token.
func (p *JWTProvider) Subject(token string) (int64, error) {
	claims, err := p.parse(token, TokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return subjectOf(claims)
}

// ValidateRefreshToken checks a refresh token and returns its subject.
func (p *JWTProvider) ValidateRefreshToken(token string) (int64, error) {
	claims, err := p.parse(token, TokenTypeRefresh)
	if err != nil {
		return 0, errcode.Wrap(errcode.InvalidRefreshToken, err)
	}
	return subjectOf(claims)
}

func (p *JWTProvider) parse(token string, want TokenType) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errcode.Wrap(errcode.ExpiredToken, err)
		}
		return nil, errcode.Wrap(errcode.InvalidToken, err)
	}
	if claims.Type != want {
		return nil, errcode.Wrap(errcode.InvalidToken, fmt.Errorf("token type %q, want %q", claims.Type, want))
	}
	return claims, nil
}

func subjectOf(claims *tokenClaims) (int64, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errcode.Wrap(errcode.InvalidToken, fmt.Errorf("subject %q is not a user id", claims.Subject))
	}
	return id, nil
}
