// Package auth issues and validates session tokens. Passwords are hashed
// with bcrypt; sessions are stateless HS256 JWTs, so signing out is simply
// the client discarding its token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/electodo/electodo/internal/models"
)

// MinPasswordLength is enforced at sign-up.
const MinPasswordLength = 6

var (
	// ErrInvalidToken is returned for malformed, expired, or badly signed tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrWeakPassword is returned at sign-up for too-short passwords.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// Session is the authenticated identity threaded through every request.
type Session struct {
	UserID uuid.UUID
	Email  string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and parses session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewManager creates a Manager. Tokens expire after ttl.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// HashPassword hashes a password for storage, rejecting short ones.
func (m *Manager) HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func (m *Manager) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Issue signs a session token for the user.
func (m *Manager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the session it carries.
func (m *Manager) Parse(tokenString string) (*Session, error) {
	var claims sessionClaims
	_, err := m.parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: userID, Email: claims.Email}, nil
}
