package store

import (
	"errors"
	"fmt"

	"github.com/smartboard-dev/smartboard/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers a bad password and a username that matches a
// non-administrator. The two are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("store: invalid credentials")

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Authenticate verifies the credentials of an administrator. A matching row
// whose role is not ADMIN is never returned. Password comparison goes
// through bcrypt, which is constant-time over the hash.
func (s *UserStore) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrap("authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Role != models.RoleAdmin {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetByID fetches a user by primary key, for session validation.
func (s *UserStore) GetByID(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		return nil, wrap("get user", err)
	}

	return &user, nil
}

// CreateUser inserts a user with the given plain-text password hashed via
// bcrypt. Used by seeding and maintenance tooling, not by request handlers.
func (s *UserStore) CreateUser(username, password, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, wrap("create user", err)
	}

	return &user, nil
}

// UpdateRole changes a user's role, the only mutation the maintenance flows
// perform on existing users.
func (s *UserStore) UpdateRole(id uint, role string) error {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		return wrap("update role", err)
	}

	user.Role = role

	if err := s.db.Save(&user).Error; err != nil {
		return wrap("update role", err)
	}

	return nil
}

// RoleStore persists the named role records. User.Role references Role.Name
// by value only; no foreign key is enforced, matching the observed schema.
type RoleStore struct {
	db *gorm.DB
}

func NewRoleStore(db *gorm.DB) *RoleStore {
	return &RoleStore{db: db}
}

func (s *RoleStore) GetByName(name string) (*models.Role, error) {
	var role models.Role

	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, wrap("get role", err)
	}

	return &role, nil
}

// Ensure creates the role if it does not exist yet.
func (s *RoleStore) Ensure(name string) error {
	var role models.Role

	err := s.db.Where("name = ?", name).First(&role).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return wrap("ensure role", err)
	}

	if err := s.db.Create(&models.Role{Name: name}).Error; err != nil {
		return wrap("ensure role", err)
	}

	return nil
}
