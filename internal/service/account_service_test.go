package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inklog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.UserProfile{}, &db.Article{}, &db.Comment{}, &db.Like{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func TestAccountService_RegisterCreatesDefaultProfile(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-register")
	svc := NewAccountService(gdb)

	account, err := svc.Register("alice", "alice@example.com", "p1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if account.User.PasswordHash == "p1" || account.User.PasswordHash == "" {
		t.Fatalf("password must be stored hashed, got %q", account.User.PasswordHash)
	}

	if account.Profile.DisplayName != "alice" {
		t.Fatalf("expected display name alice, got %q", account.Profile.DisplayName)
	}
	if account.Profile.BlogTitle != "alice's Blog" {
		t.Fatalf("unexpected blog title %q", account.Profile.BlogTitle)
	}
	if account.Profile.Bio != DefaultBio || account.Profile.Icon != DefaultIcon {
		t.Fatalf("expected default bio and icon, got %q %q", account.Profile.Bio, account.Profile.Icon)
	}

	var profileCount int64
	if err := gdb.Model(&db.UserProfile{}).Where("user_id = ?", account.User.ID).Count(&profileCount).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if profileCount != 1 {
		t.Fatalf("expected exactly one profile row, got %d", profileCount)
	}
}

func TestAccountService_RegisterConflicts(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-conflict")
	svc := NewAccountService(gdb)

	if _, err := svc.Register("alice", "alice@example.com", "p1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Username conflict wins over email conflict.
	if _, err := svc.Register("alice", "alice@example.com", "p2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register("alice", "other@example.com", "p2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register("bob", "alice@example.com", "p2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	var userCount, profileCount int64
	gdb.Model(&db.User{}).Count(&userCount)
	gdb.Model(&db.UserProfile{}).Count(&profileCount)
	if userCount != 1 || profileCount != 1 {
		t.Fatalf("rejected attempts must not change counts, got %d users %d profiles", userCount, profileCount)
	}
}

func TestAccountService_RegisterRejectsMissingFields(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-validate")
	svc := NewAccountService(gdb)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "missing username", email: "a@example.com", password: "p"},
		{name: "missing email", username: "a", password: "p"},
		{name: "missing password", username: "a", email: "a@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(tt.username, tt.email, tt.password); !errors.Is(err, ErrInvalidAccountInput) {
				t.Fatalf("expected ErrInvalidAccountInput, got %v", err)
			}
		})
	}
}

func TestAccountService_AuthenticateScenario(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-auth")
	svc := NewAccountService(gdb)

	registered, err := svc.Register("alice", "a@x.com", "p1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	account, err := svc.Authenticate("alice", "p1")
	if err != nil {
		t.Fatalf("authenticate by username: %v", err)
	}
	if account.User.ID != registered.User.ID {
		t.Fatalf("expected user %d, got %d", registered.User.ID, account.User.ID)
	}

	if _, err := svc.Authenticate("a@x.com", "p1"); err != nil {
		t.Fatalf("authenticate by email: %v", err)
	}

	if _, err := svc.Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "p1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAccountService_UpdateSettingsKeepsPasswordWhenBlank(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-settings")
	svc := NewAccountService(gdb)

	account, err := svc.Register("alice", "a@x.com", "p1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateSettings(account.User.ID, SettingsInput{
		Username:     "alice",
		Email:        "a@x.com",
		DisplayName:  "Alice",
		BlogTitle:    "Alice Writes",
		Bio:          "new bio",
		Introduction: "new intro",
		Icon:         "alice.png",
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if updated.Profile.DisplayName != "Alice" || updated.Profile.BlogTitle != "Alice Writes" {
		t.Fatalf("profile not updated: %+v", updated.Profile)
	}

	if _, err := svc.Authenticate("alice", "p1"); err != nil {
		t.Fatalf("old password must still work after blank password update: %v", err)
	}

	if _, err := svc.UpdateSettings(account.User.ID, SettingsInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "p2",
	}); err != nil {
		t.Fatalf("update password: %v", err)
	}

	if _, err := svc.Authenticate("alice", "p1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.Authenticate("alice", "p2"); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
}

func TestAccountService_UpdateSettingsRejectsTakenIdentity(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-settings-conflict")
	svc := NewAccountService(gdb)

	if _, err := svc.Register("alice", "a@x.com", "p1"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bob, err := svc.Register("bob", "b@x.com", "p1")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	if _, err := svc.UpdateSettings(bob.User.ID, SettingsInput{Username: "alice", Email: "b@x.com"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.UpdateSettings(bob.User.ID, SettingsInput{Username: "bob", Email: "a@x.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_CheckPassword(t *testing.T) {
	gdb := setupServiceTestDB(t, "account-checkpw")
	svc := NewAccountService(gdb)

	account, err := svc.Register("alice", "a@x.com", "p1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	valid, err := svc.CheckPassword(account.User.ID, "p1")
	if err != nil || !valid {
		t.Fatalf("expected valid password, got valid=%v err=%v", valid, err)
	}

	valid, err = svc.CheckPassword(account.User.ID, "nope")
	if err != nil || valid {
		t.Fatalf("expected invalid password, got valid=%v err=%v", valid, err)
	}

	valid, err = svc.CheckPassword(9999, "p1")
	if err != nil || valid {
		t.Fatalf("unknown user must not validate, got valid=%v err=%v", valid, err)
	}
}
