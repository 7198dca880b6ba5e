package repository

import (
	"context"
	"time"

	"fittrack/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound          = RepositoryError("not found")
	ErrDuplicateUsername = RepositoryError("username already exists")
	ErrDuplicateEmail    = RepositoryError("email already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserWithCount pairs a user with their derived workout count for the admin
// listing.
type UserWithCount struct {
	domain.User
	WorkoutCount int
}

// ProfileUpdate carries the all-or-nothing profile replacement.
type ProfileUpdate struct {
	Age      int
	HeightCm float64
	WeightKg float64
}

// HistoryRow is one exercise joined with its workout, used by the CSV export.
type HistoryRow struct {
	WorkoutID int64
	Date      time.Time
	Note      string
	Exercise  string
	Sets      int
	Reps      int
	Weight    *float64
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByOAuthSub(ctx context.Context, provider, sub string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, p ProfileUpdate) error
	ListWithWorkoutCounts(ctx context.Context) ([]UserWithCount, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Reads and deletes are always scoped to the owning user; a workout that
// exists but belongs to someone else behaves exactly like one that does not
// exist.
type WorkoutRepository interface {
	// CreateWithExercises inserts the workout and its exercises in one
	// transaction; on any failure nothing is committed.
	CreateWithExercises(ctx context.Context, workout *domain.Workout, exercises []domain.Exercise) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Workout, error)
	GetForUser(ctx context.Context, workoutID, userID int64) (*domain.Workout, error)
	DeleteForUser(ctx context.Context, workoutID, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	// RecentExerciseCount counts exercises across the user's N most recent
	// workouts.
	RecentExerciseCount(ctx context.Context, userID int64, recent int) (int, error)
	HistoryByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
}

// ExerciseRepository defines the interface for interacting with the exercises
// inside workouts. Ownership is checked transitively through the parent
// workout.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (int64, error)
	ListByWorkout(ctx context.Context, workoutID int64) ([]domain.Exercise, error)
	// DeleteForUser removes the exercise if its parent workout belongs to
	// userID and returns the parent workout id.
	DeleteForUser(ctx context.Context, exerciseID, userID int64) (int64, error)
}
