package services

import (
	"errors"
	"fmt"
	"strings"

	"licencias_flow_go/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateUser registers an operator account with a hashed password.
func CreateUser(db *gorm.DB, name, username, email, password, role string) (*models.User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, models.NewValidationError("username", "El nombre de usuario es obligatorio.")
	}
	if password == "" {
		return nil, models.NewValidationError("password", "La contraseña es obligatoria.")
	}
	if role == "" {
		role = "staff"
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Username: username,
		Email:    strings.TrimSpace(strings.ToLower(email)),
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByUsername looks up an active user by username.
func FindUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "username = ? AND is_active = ?", strings.TrimSpace(strings.ToLower(username)), true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q not found", username)
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns the matching user.
func Authenticate(db *gorm.DB, username, password string) (*models.User, error) {
	user, err := FindUserByUsername(db, username)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(password, user.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}
