package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inklog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken 在用户名已被占用时返回
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken 在邮箱已被占用时返回
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials 在登录凭证不匹配时返回，不区分账号不存在与密码错误
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidAccountInput 在注册或设置输入不完整时返回
	ErrInvalidAccountInput = errors.New("invalid account input")
)

// Default profile values applied at registration.
const (
	DefaultBio          = "No bio available."
	DefaultIntroduction = "No introduction available."
	DefaultIcon         = "user.png"
)

// dummyHash keeps the bcrypt comparison on the login path even when the
// account does not exist, so lookups misses and password mismatches take
// comparable time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("inklog-no-such-user"), bcrypt.DefaultCost)

// AccountService wraps user and profile related database operations.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// Account pairs a user row with its profile row.
type Account struct {
	User    db.User
	Profile db.UserProfile
}

// SettingsInput represents fields accepted when updating account settings.
// Password is only applied when non-empty.
type SettingsInput struct {
	Username     string
	Email        string
	Password     string
	DisplayName  string
	BlogTitle    string
	Bio          string
	Introduction string
	Icon         string
}

// Register creates a user and its default profile in one transaction.
// A single OR lookup detects conflicts; a username match is reported
// before an email match.
func (s *AccountService) Register(username, email, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidAccountInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidAccountInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidAccountInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.User
		err := tx.Where("username = ? OR email = ?", username, email).First(&existing).Error
		if err == nil {
			if existing.Username == username {
				return ErrUsernameTaken
			}
			return ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		account.User = db.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hashed),
		}
		if err := tx.Create(&account.User).Error; err != nil {
			return err
		}

		account.Profile = db.UserProfile{
			UserID:       account.User.ID,
			Bio:          DefaultBio,
			Introduction: DefaultIntroduction,
			DisplayName:  username,
			BlogTitle:    fmt.Sprintf("%s's Blog", username),
			Icon:         DefaultIcon,
		}
		return tx.Create(&account.Profile).Error
	}); err != nil {
		return nil, err
	}

	return account, nil
}

// UsernameExists reports whether a user with the given username exists.
func (s *AccountService) UsernameExists(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailExists reports whether a user with the given email exists.
func (s *AccountService) EmailExists(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Authenticate verifies credentials against the stored bcrypt hash and
// returns the matching account for the session cache.
func (s *AccountService) Authenticate(usernameOrEmail, password string) (*Account, error) {
	var user db.User
	err := s.db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profileFor(s.db, user)
	if err != nil {
		return nil, err
	}

	return &Account{User: user, Profile: *profile}, nil
}

// Settings returns the user and profile data shown on the settings page.
func (s *AccountService) Settings(userID uint) (*Account, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.profileFor(s.db, user)
	if err != nil {
		return nil, err
	}

	return &Account{User: user, Profile: *profile}, nil
}

// UpdateSettings applies user and profile changes in one transaction and
// returns the fresh account so the caller can refresh its session cache.
// The stored password is only replaced when a new non-empty one is given.
func (s *AccountService) UpdateSettings(userID uint, input SettingsInput) (*Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidAccountInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidAccountInput)
	}

	account := &Account{}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var conflict db.User
		err := tx.Where("(username = ? OR email = ?) AND id <> ?", username, email, userID).First(&conflict).Error
		if err == nil {
			if conflict.Username == username {
				return ErrUsernameTaken
			}
			return ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user.Username = username
		user.Email = email
		if input.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = string(hashed)
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		var profile db.UserProfile
		err = tx.Where("user_id = ?", userID).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		profile.UserID = userID
		profile.Bio = input.Bio
		profile.Introduction = input.Introduction
		profile.DisplayName = input.DisplayName
		profile.BlogTitle = input.BlogTitle
		profile.Icon = input.Icon
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		account.User = user
		account.Profile = profile
		return nil
	}); err != nil {
		return nil, err
	}

	return account, nil
}

// CheckPassword reports whether candidate matches the stored password.
func (s *AccountService) CheckPassword(userID uint, candidate string) (bool, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil, nil
}

// UpdateIcon replaces the profile icon for the given user.
func (s *AccountService) UpdateIcon(userID uint, icon string) error {
	result := s.db.Model(&db.UserProfile{}).Where("user_id = ?", userID).Update("icon", icon)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// profileFor loads the profile row, falling back to in-memory defaults
// when none exists so callers always see a complete profile.
func (s *AccountService) profileFor(tx *gorm.DB, user db.User) (*db.UserProfile, error) {
	var profile db.UserProfile
	err := tx.Where("user_id = ?", user.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &db.UserProfile{
			UserID:       user.ID,
			Bio:          DefaultBio,
			Introduction: DefaultIntroduction,
			DisplayName:  user.Username,
			BlogTitle:    fmt.Sprintf("%s's Blog", user.Username),
			Icon:         DefaultIcon,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
