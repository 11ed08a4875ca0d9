package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"gorm.io/gorm"
)

// UserService provides business logic for user operations.
type UserService struct {
	userRepo    repository.UserRepository
	catalogRepo repository.CatalogRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, catalogRepo repository.CatalogRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
	}
}

// CreateUserInput represents parameters to create a new user.
type CreateUserInput struct {
	Name  string
	Email string
	Role  string
}

// UpdateUserInput represents a partial user update. Nil fields are unchanged.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

// CreateUser creates a user after checking the role and email uniqueness.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	role, err := s.resolveRole(ctx, input.Role)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:   input.Name,
		Email:  input.Email,
		RoleID: role.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUser(ctx, user.ID)
}

// GetUser returns a user with its role.
func (s *UserService) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(ctx context.Context, userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		role, err := s.resolveRole(ctx, *input.Role)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = *role
	}
	if input.Email != nil && *input.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetUser(ctx, user.ID)
}

// DeleteUser deletes a user and every assignment they hold. The user row is
// locked first, so an assignment transaction that already counted the user
// commits before the assignments are removed.
func (s *UserService) DeleteUser(ctx context.Context, userID uint64) error {
	return s.userRepo.Transaction(ctx, func(tx repository.UserRepository) error {
		if _, err := tx.FindByIDForUpdate(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}
		if err := tx.DeleteAssignments(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user assignments: %w", err)
		}
		if err := tx.Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (s *UserService) resolveRole(ctx context.Context, name string) (*models.UserRole, error) {
	role, err := s.catalogRepo.FindRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRole
		}
		return nil, fmt.Errorf("failed to resolve user role: %w", err)
	}
	return role, nil
}

// ensureEmailFree fails with ErrEmailTaken when another user owns email.
func (s *UserService) ensureEmailFree(ctx context.Context, email string, ownerID uint64) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != ownerID {
		return ErrEmailTaken
	}
	return nil
}
