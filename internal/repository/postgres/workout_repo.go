package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// pgWorkoutRepository implements repository.WorkoutRepository.
type pgWorkoutRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutRepository creates a new workout repository backed by Postgres.
func NewWorkoutRepository(pool *pgxpool.Pool) repository.WorkoutRepository {
	return &pgWorkoutRepository{pool: pool}
}

// CreateWithExercises inserts the workout and all child exercises in a single
// transaction. A failure on any row rolls back the whole write.
func (r *pgWorkoutRepository) CreateWithExercises(ctx context.Context, workout *domain.Workout, exercises []domain.Exercise) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const insertWorkout = `INSERT INTO workouts (user_id, date, note) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRow(ctx, insertWorkout, workout.UserID, workout.Date, workout.Note).Scan(&workout.ID); err != nil {
		return 0, err
	}

	const insertExercise = `INSERT INTO workout_exercises (workout_id, name, sets, reps, weight) VALUES ($1, $2, $3, $4, $5)`
	for _, ex := range exercises {
		if _, err := tx.Exec(ctx, insertExercise, workout.ID, ex.Name, ex.Sets, ex.Reps, ex.Weight); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return workout.ID, nil
}

// ListByUser returns the user's workouts ordered by date descending, each
// with its derived exercise count.
func (r *pgWorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Workout, error) {
	const q = `
		SELECT w.id, w.user_id, w.date, w.note,
			(SELECT count(*) FROM workout_exercises e WHERE e.workout_id = w.id) AS exercise_count
		FROM workouts w
		WHERE w.user_id = $1
		ORDER BY w.date DESC, w.id DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []domain.Workout
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Note, &w.ExerciseCount); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// GetForUser fetches one workout scoped to its owner. A workout owned by
// someone else is reported as not found.
func (r *pgWorkoutRepository) GetForUser(ctx context.Context, workoutID, userID int64) (*domain.Workout, error) {
	const q = `
		SELECT w.id, w.user_id, w.date, w.note,
			(SELECT count(*) FROM workout_exercises e WHERE e.workout_id = w.id)
		FROM workouts w
		WHERE w.id = $1 AND w.user_id = $2`
	var w domain.Workout
	err := r.pool.QueryRow(ctx, q, workoutID, userID).Scan(&w.ID, &w.UserID, &w.Date, &w.Note, &w.ExerciseCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// DeleteForUser removes the workout; child exercises go with it via the
// ON DELETE CASCADE foreign key.
func (r *pgWorkoutRepository) DeleteForUser(ctx context.Context, workoutID, userID int64) error {
	const q = `DELETE FROM workouts WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, workoutID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgWorkoutRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	const q = `SELECT count(*) FROM workouts WHERE user_id = $1`
	var n int
	err := r.pool.QueryRow(ctx, q, userID).Scan(&n)
	return n, err
}

// RecentExerciseCount counts exercises across the user's most recent workouts.
func (r *pgWorkoutRepository) RecentExerciseCount(ctx context.Context, userID int64, recent int) (int, error) {
	const q = `
		SELECT count(*)
		FROM workout_exercises e
		WHERE e.workout_id IN (
			SELECT id FROM workouts
			WHERE user_id = $1
			ORDER BY date DESC, id DESC
			LIMIT $2
		)`
	var n int
	err := r.pool.QueryRow(ctx, q, userID, recent).Scan(&n)
	return n, err
}

// HistoryByUser returns every exercise the user has logged, joined with its
// workout, newest workout first.
func (r *pgWorkoutRepository) HistoryByUser(ctx context.Context, userID int64) ([]repository.HistoryRow, error) {
	const q = `
		SELECT w.id, w.date, w.note, e.name, e.sets, e.reps, e.weight
		FROM workouts w
		JOIN workout_exercises e ON e.workout_id = w.id
		WHERE w.user_id = $1
		ORDER BY w.date DESC, w.id DESC, e.id ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.HistoryRow
	for rows.Next() {
		var h repository.HistoryRow
		if err := rows.Scan(&h.WorkoutID, &h.Date, &h.Note, &h.Exercise, &h.Sets, &h.Reps, &h.Weight); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
