package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-board-api/internal/access"
	"github.com/yukikurage/project-board-api/internal/auth"
	"github.com/yukikurage/project-board-api/internal/models"
	"github.com/yukikurage/project-board-api/internal/repository"
	"gorm.io/gorm"
)

// UserService manages user accounts after registration.
type UserService struct {
	userRepo repository.UserRepository
	guard    *access.Guard
	hasher   *auth.PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, guard *access.Guard, hasher *auth.PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		guard:    guard,
		hasher:   hasher,
	}
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput holds the account fields a user may change.
type UpdateUserInput struct {
	Email    string
	Password *string
}

// UpdateUser changes the caller's own email and, optionally, password.
func (s *UserService) UpdateUser(p access.Principal, id string, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.User(p, id, access.ActionUpdateUser); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if email != user.Email {
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}
	user.Email = email

	if input.Password != nil && *input.Password != "" {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes the caller's own account together with the projects they own.
func (s *UserService) DeleteUser(p access.Principal, id string) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}

	if err := s.guard.User(p, id, access.ActionDeleteUser); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
