package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/internal/apperrors"
	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// recentWindow is how many workouts the stats endpoint looks back over.
const recentWindow = 5

// ExerciseInput is one exercise entry in a create/add request. Sets and Reps
// fall back to the model defaults when nil.
type ExerciseInput struct {
	Name   string
	Sets   *int
	Reps   *int
	Weight *float64
}

// Stats is the summary returned by the stats endpoint.
type Stats struct {
	TotalWorkouts   int `json:"total_workouts"`
	RecentExercises int `json:"recent_exercises"`
}

// quickstartPreset is a fixed (sets, reps) template for one experience level.
type quickstartPreset struct {
	Label string
	Sets  int
	Reps  int
}

var quickstartPresets = map[string]quickstartPreset{
	"beginner":     {Label: "Beginner", Sets: 3, Reps: 10},
	"intermediate": {Label: "Intermediate", Sets: 4, Reps: 10},
	"expert":       {Label: "Expert", Sets: 5, Reps: 8},
}

// quickstartTemplate is the fixed exercise list every quickstart workout gets.
var quickstartTemplate = []string{"Squat", "Bench press", "Row"}

// exerciseCatalog is the static reference list served by the catalog
// endpoint.
var exerciseCatalog = []string{
	"Bench press", "Squat", "Deadlift", "Pull-up",
	"Shoulder press", "Biceps curl", "Triceps dip",
	"Lunge", "Leg press", "Row", "Kettlebell swing", "Plank",
}

// WorkoutService exposes the workout and exercise operations, all scoped to
// the authenticated user through the ownership chain.
type WorkoutService interface {
	List(ctx context.Context, userID int64) ([]domain.Workout, error)
	Get(ctx context.Context, userID, workoutID int64) (*domain.Workout, []domain.Exercise, error)
	// Create makes a workout dated today unless a YYYY-MM-DD date is given.
	// Bulk exercise entries without a name are skipped.
	Create(ctx context.Context, userID int64, date, note string, exercises []ExerciseInput) (int64, error)
	Delete(ctx context.Context, userID, workoutID int64) error

	AddExercise(ctx context.Context, userID, workoutID int64, in ExerciseInput) (int64, error)
	// DeleteExercise returns the parent workout id so the caller can refresh
	// that view.
	DeleteExercise(ctx context.Context, userID, exerciseID int64) (int64, error)

	Stats(ctx context.Context, userID int64) (Stats, error)
	Quickstart(ctx context.Context, userID int64, level string) (int64, error)
	Catalog() []string
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		now:          time.Now,
	}
}

func (s *workoutService) List(ctx context.Context, userID int64) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return workouts, nil
}

func (s *workoutService) Get(ctx context.Context, userID, workoutID int64) (*domain.Workout, []domain.Exercise, error) {
	workout, err := s.workoutRepo.GetForUser(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NotFound("workout")
		}
		return nil, nil, apperrors.Internal(err)
	}
	exercises, err := s.exerciseRepo.ListByWorkout(ctx, workout.ID)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return workout, exercises, nil
}

func (s *workoutService) Create(ctx context.Context, userID int64, date, note string, exercises []ExerciseInput) (int64, error) {
	workoutDate, err := s.parseDate(date)
	if err != nil {
		return 0, err
	}

	var rows []domain.Exercise
	for _, in := range exercises {
		if strings.TrimSpace(in.Name) == "" {
			// Nameless entries are skipped rather than rejected.
			continue
		}
		row, err := buildExercise(in)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	workout := &domain.Workout{UserID: userID, Date: workoutDate, Note: note}
	id, err := s.workoutRepo.CreateWithExercises(ctx, workout, rows)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return id, nil
}

func (s *workoutService) Delete(ctx context.Context, userID, workoutID int64) error {
	err := s.workoutRepo.DeleteForUser(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("workout")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *workoutService) AddExercise(ctx context.Context, userID, workoutID int64, in ExerciseInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, apperrors.InvalidInput("exercise name is required")
	}

	// Ownership gate: adding to someone else's workout reads as not-found.
	if _, err := s.workoutRepo.GetForUser(ctx, workoutID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NotFound("workout")
		}
		return 0, apperrors.Internal(err)
	}

	row, err := buildExercise(in)
	if err != nil {
		return 0, err
	}
	row.WorkoutID = workoutID

	id, err := s.exerciseRepo.Create(ctx, &row)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return id, nil
}

func (s *workoutService) DeleteExercise(ctx context.Context, userID, exerciseID int64) (int64, error) {
	workoutID, err := s.exerciseRepo.DeleteForUser(ctx, exerciseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NotFound("exercise")
		}
		return 0, apperrors.Internal(err)
	}
	return workoutID, nil
}

func (s *workoutService) Stats(ctx context.Context, userID int64) (Stats, error) {
	total, err := s.workoutRepo.CountByUser(ctx, userID)
	if err != nil {
		return Stats{}, apperrors.Internal(err)
	}
	recent, err := s.workoutRepo.RecentExerciseCount(ctx, userID, recentWindow)
	if err != nil {
		return Stats{}, apperrors.Internal(err)
	}
	return Stats{TotalWorkouts: total, RecentExercises: recent}, nil
}

// Quickstart creates one workout dated today from a named preset.
func (s *workoutService) Quickstart(ctx context.Context, userID int64, level string) (int64, error) {
	preset, ok := quickstartPresets[strings.ToLower(level)]
	if !ok {
		return 0, apperrors.InvalidInput("invalid level (use: beginner, intermediate, expert)")
	}

	exercises := make([]domain.Exercise, 0, len(quickstartTemplate))
	for _, name := range quickstartTemplate {
		exercises = append(exercises, domain.Exercise{
			Name: name,
			Sets: preset.Sets,
			Reps: preset.Reps,
		})
	}

	workout := &domain.Workout{
		UserID: userID,
		Date:   s.today(),
		Note:   fmt.Sprintf("Quickstart - %s", preset.Label),
	}
	id, err := s.workoutRepo.CreateWithExercises(ctx, workout, exercises)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return id, nil
}

// Catalog returns the static exercise name list.
func (s *workoutService) Catalog() []string {
	out := make([]string, len(exerciseCatalog))
	copy(out, exerciseCatalog)
	return out
}

func (s *workoutService) parseDate(date string) (time.Time, error) {
	if date == "" {
		return s.today(), nil
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid date format (use YYYY-MM-DD)")
	}
	return d, nil
}

func (s *workoutService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildExercise validates one exercise entry and applies the model defaults.
func buildExercise(in ExerciseInput) (domain.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < domain.ExerciseNameMinLen || len(name) > domain.ExerciseNameMaxLen {
		return domain.Exercise{}, apperrors.InvalidInput(
			fmt.Sprintf("exercise name must be %d-%d characters", domain.ExerciseNameMinLen, domain.ExerciseNameMaxLen))
	}

	sets := domain.DefaultSets
	if in.Sets != nil {
		sets = *in.Sets
	}
	if sets < domain.SetsMin || sets > domain.SetsMax {
		return domain.Exercise{}, apperrors.InvalidInput("sets must be between 1 and 20")
	}

	reps := domain.DefaultReps
	if in.Reps != nil {
		reps = *in.Reps
	}
	if reps < domain.RepsMin || reps > domain.RepsMax {
		return domain.Exercise{}, apperrors.InvalidInput("reps must be between 1 and 100")
	}

	if in.Weight != nil && *in.Weight < 0 {
		return domain.Exercise{}, apperrors.InvalidInput("weight must be non-negative")
	}

	return domain.Exercise{Name: name, Sets: sets, Reps: reps, Weight: in.Weight}, nil
}
