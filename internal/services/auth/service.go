package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"medialog/internal/config"
	"medialog/internal/models"
)

var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service issues user identities and verifies credentials. The list
// engine itself only ever sees the opaque user id this service hands out.
type Service struct {
	db     *models.Database
	secret []byte
	expiry time.Duration
	logger *logrus.Logger
}

// NewService creates a new auth service
func NewService(cfg *config.Config, db *models.Database, logger *logrus.Logger) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &Service{
		db:     db,
		secret: []byte(cfg.JWTSecret),
		expiry: time.Duration(cfg.JWTExpiryHours) * time.Hour,
		logger: logger,
	}, nil
}

// Register creates a new user record with every list bucket present and
// empty. Username and email must both be unused.
func (s *Service) Register(username, email, password string) (*models.UserRecord, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.db.FindUserByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.db.FindUserByUsername(username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &models.UserRecord{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Lists:        models.NewUserLists(),
	}

	if err := s.db.CreateUser(record); err != nil {
		return nil, err
	}

	s.logger.WithField("username", username).Info("User registered")
	return record, nil
}

// Login verifies credentials and returns a signed token plus the user
// record. A wrong email and a wrong password are indistinguishable.
func (s *Service) Login(email, password string) (string, *models.UserRecord, error) {
	record, err := s.db.FindUserByEmail(strings.TrimSpace(email))
	if errors.Is(err, models.ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   record.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, record, nil
}

// VerifyToken validates a token and returns the user id it carries
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
