package auth

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/loja/internal/models"
	"github.com/rogerio-castellano/loja/internal/repo"
)

// EnsureStaffUser creates a staff account unless username already exists.
// It reports whether an account was created.
func EnsureStaffUser(users repo.UserRepository, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("username and password are required")
	}

	_, err := users.GetByUsername(username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return false, fmt.Errorf("lookup %s: %w", username, err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := users.CreateUser(models.User{Username: username, PasswordHash: hash, IsStaff: true}); err != nil {
		return false, fmt.Errorf("create %s: %w", username, err)
	}
	return true, nil
}
