package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stacked-time/stacked_time/internal/config"
	"github.com/stacked-time/stacked_time/internal/identity"
)

// ErrInvalidToken is returned for malformed, expired or mis-signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Service exchanges validated credentials for signed session tokens.
type Service struct {
	cfg config.Config
}

// NewService builds the token service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// TokenPair bundles the access and refresh tokens issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login issues an access/refresh token pair for an authenticated user.
func (s *Service) Login(user identity.User) (TokenPair, error) {
	access, err := s.sign(user.ID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(user.ID, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Refresh verifies the refresh token and returns a new access token.
func (s *Service) Refresh(refreshToken string) (string, int64, error) {
	userID, err := s.Verify(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", 0, err
	}
	access, err := s.sign(userID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return access, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}

// VerifyAccess validates an access token and returns the subject user id.
func (s *Service) VerifyAccess(token string) (string, error) {
	return s.Verify(token, s.cfg.JWTSecret)
}

// Verify parses a token against the given secret and returns its subject.
func (s *Service) Verify(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (s *Service) sign(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
