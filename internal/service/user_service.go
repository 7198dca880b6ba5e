package service

import (
	"context"
	"errors"

	"fittrack/internal/apperrors"
	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// Profile field bounds.
const (
	AgeMin      = 1
	AgeMax      = 120
	HeightMinCm = 50
	HeightMaxCm = 300
	WeightMinKg = 20
	WeightMaxKg = 500
)

// UserService exposes profile and administrative user operations.
type UserService interface {
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	// UpdateProfile replaces all three profile fields together; partial
	// updates are not supported.
	UpdateProfile(ctx context.Context, userID int64, age int, heightCm, weightKg float64) error
	// ListUsers returns every user with a derived workout count. Only admins
	// may call it.
	ListUsers(ctx context.Context, requester *domain.User) ([]repository.UserWithCount, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, age int, heightCm, weightKg float64) error {
	if age < AgeMin || age > AgeMax {
		return apperrors.InvalidInput("age must be between 1 and 120")
	}
	if heightCm < HeightMinCm || heightCm > HeightMaxCm {
		return apperrors.InvalidInput("height must be between 50 and 300 cm")
	}
	if weightKg < WeightMinKg || weightKg > WeightMaxKg {
		return apperrors.InvalidInput("weight must be between 20 and 500 kg")
	}

	err := s.userRepo.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Age:      age,
		HeightCm: heightCm,
		WeightKg: weightKg,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, requester *domain.User) ([]repository.UserWithCount, error) {
	if requester == nil || !requester.IsAdmin() {
		return nil, apperrors.Forbidden()
	}
	users, err := s.userRepo.ListWithWorkoutCounts(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}
