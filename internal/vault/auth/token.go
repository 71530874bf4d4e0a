// Package auth issues and verifies the bearer tokens that gate vault
// commands and hashes account passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sabry-awad97/snippet-vault/internal/common"
)

// Class tells access tokens from refresh tokens.
type Class string

const (
	Access  Class = "access"
	Refresh Class = "refresh"
)

func (c Class) valid() bool { return c == Access || c == Refresh }

// Claims is the signed payload. The class travels inside the signature so a
// token cannot be presented as the other kind.
type Claims struct {
	jwt.RegisteredClaims
	Class Class `json:"token_type"`
}

// Claim is a verified token.
type Claim struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Class     Class
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type TokenService struct {
	keys       *Keyring
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*TokenService)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService requires positive lifetimes with access strictly shorter
// than refresh.
func NewTokenService(keys *Keyring, accessTTL, refreshTTL time.Duration, opts ...Option) (*TokenService, error) {
	if keys == nil {
		return nil, errors.New("keyring is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	if accessTTL >= refreshTTL {
		return nil, fmt.Errorf("access token lifetime %s must be shorter than refresh lifetime %s", accessTTL, refreshTTL)
	}

	s := &TokenService{keys: keys, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) lifetime(class Class) time.Duration {
	if class == Refresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue signs a token for subject. Identical inputs at the same instant
// produce identical tokens.
func (s *TokenService) Issue(subject string, class Class) (string, error) {
	if subject == "" || !class.valid() {
		return "", common.InvalidToken(fmt.Errorf("cannot issue %q token for %q", class, subject))
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime(class))),
		},
		Class: class,
	})

	signed, err := s.keys.sign(token)
	if err != nil {
		return "", common.InvalidToken(fmt.Errorf("sign: %w", err))
	}
	return signed, nil
}

// IssuePair issues an access and a refresh token for subject.
func (s *TokenService) IssuePair(subject string) (TokenPair, error) {
	access, err := s.Issue(subject, Access)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Issue(subject, Refresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature, algorithm and expiry. A token is valid up to and
// including the second its exp claim names. The class is not checked.
func (s *TokenService) Verify(tokenString string) (*Claim, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, s.keys.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		// jwt rejects now == exp; one nanosecond keeps exp itself valid.
		jwt.WithLeeway(time.Nanosecond),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.TokenExpired(err)
		}
		return nil, common.InvalidToken(err)
	}
	if !token.Valid {
		return nil, common.InvalidToken(errors.New("token not valid"))
	}
	if claims.Subject == "" || claims.IssuedAt == nil || !claims.Class.valid() {
		return nil, common.InvalidToken(errors.New("malformed claims"))
	}

	return &Claim{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Class:     claims.Class,
	}, nil
}

// VerifyClass is Verify plus a check that the token is of the wanted class.
func (s *TokenService) VerifyClass(tokenString string, class Class) (*Claim, error) {
	claim, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claim.Class != class {
		return nil, common.InvalidToken(fmt.Errorf("got %s token, want %s", claim.Class, class))
	}
	return claim, nil
}
