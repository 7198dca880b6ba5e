package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// pgExerciseRepository implements repository.ExerciseRepository.
type pgExerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository creates a new exercise repository backed by Postgres.
func NewExerciseRepository(pool *pgxpool.Pool) repository.ExerciseRepository {
	return &pgExerciseRepository{pool: pool}
}

// Create inserts a single exercise into an existing workout.
func (r *pgExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (int64, error) {
	const q = `
		INSERT INTO workout_exercises (workout_id, name, sets, reps, weight)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.pool.QueryRow(ctx, q, exercise.WorkoutID, exercise.Name, exercise.Sets, exercise.Reps, exercise.Weight).Scan(&exercise.ID)
	if err != nil {
		return 0, err
	}
	return exercise.ID, nil
}

// ListByWorkout returns the exercises of one workout in insertion order.
func (r *pgExerciseRepository) ListByWorkout(ctx context.Context, workoutID int64) ([]domain.Exercise, error) {
	const q = `
		SELECT id, workout_id, name, sets, reps, weight
		FROM workout_exercises
		WHERE workout_id = $1
		ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, q, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		var ex domain.Exercise
		if err := rows.Scan(&ex.ID, &ex.WorkoutID, &ex.Name, &ex.Sets, &ex.Reps, &ex.Weight); err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// DeleteForUser removes one exercise, checking ownership transitively
// through the parent workout, and returns the parent workout id.
func (r *pgExerciseRepository) DeleteForUser(ctx context.Context, exerciseID, userID int64) (int64, error) {
	const q = `
		DELETE FROM workout_exercises e
		USING workouts w
		WHERE e.id = $1 AND e.workout_id = w.id AND w.user_id = $2
		RETURNING e.workout_id`
	var workoutID int64
	err := r.pool.QueryRow(ctx, q, exerciseID, userID).Scan(&workoutID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return workoutID, nil
}
