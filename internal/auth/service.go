package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginDisabled      = errors.New("login disabled")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service issues and validates bearer tokens. Editors authenticate with a
// shared access key whose bcrypt hash comes from configuration.
type Service struct {
	jwtSecret     []byte
	accessKeyHash []byte
	ttl           time.Duration
	now           func() time.Time
}

func NewService(jwtSecret, accessKeyHash string, ttl time.Duration) *Service {
	return &Service{
		jwtSecret:     []byte(jwtSecret),
		accessKeyHash: []byte(accessKeyHash),
		ttl:           ttl,
		now:           time.Now,
	}
}

type AuthResult struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login checks accessKey against the configured hash and issues a token for
// name. Login is disabled when no hash is configured.
func (s *Service) Login(name, accessKey string) (*AuthResult, error) {
	if len(s.accessKeyHash) == 0 {
		return nil, ErrLoginDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.accessKeyHash, []byte(accessKey)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.IssueToken(name)
}

func (s *Service) IssueToken(subject string) (*AuthResult, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AuthResult{Token: signed, Subject: subject, ExpiresAt: time.Unix(expires.Unix(), 0).UTC()}, nil
}

// ValidateToken returns the subject of a valid, unexpired token.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return subject, nil
}

// HashAccessKey produces a value suitable for ACCESS_KEY_HASH.
func HashAccessKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 12)
	if err != nil {
		return "", fmt.Errorf("hash access key: %w", err)
	}
	return string(hash), nil
}
