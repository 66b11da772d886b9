package auth

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"medialog/internal/config"
	"medialog/internal/models"
)

func newTestService(t *testing.T) (*Service, *models.Database) {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "medialog.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1}
	svc, err := NewService(cfg, db, logger)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	return svc, db
}

func TestRegisterCreatesFullListStructure(t *testing.T) {
	svc, db := newTestService(t)

	record, err := svc.Register("alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected a generated user id")
	}
	if record.PasswordHash == "hunter22" {
		t.Fatal("password must not be stored in the clear")
	}

	stored, err := db.FindUserByID(record.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	for _, mediaType := range models.MediaTypes() {
		if stored.Lists[mediaType] == nil {
			t.Errorf("missing buckets for %s", mediaType)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register("", "a@example.com", "pw"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}

	if _, err := svc.Register("alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register("alice", "other@example.com", "pw"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username: expected ErrUserExists, got %v", err)
	}
	if _, err := svc.Register("bob", "alice@example.com", "pw"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email: expected ErrUserExists, got %v", err)
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register("alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, record, err := svc.Login("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if record.ID != registered.ID {
		t.Errorf("login returned wrong user: %s", record.ID)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if userID != registered.ID {
		t.Errorf("token carries wrong user id: %s", userID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register("alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
