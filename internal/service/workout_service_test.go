package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/apperrors"
	"fittrack/internal/repository"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newWorkoutFixture(t *testing.T) (context.Context, *fakeStore, repository.UserRepository, *workoutService) {
	t.Helper()
	store, users, workouts, exercises := newFakeRepos()
	svc := NewWorkoutService(workouts, exercises).(*workoutService)
	return context.Background(), store, users, svc
}

func registerUser(t *testing.T, ctx context.Context, users repository.UserRepository, name string) int64 {
	t.Helper()
	auth := NewAuthService(users, "adminsecret")
	u, err := auth.Register(ctx, name, "password123")
	require.NoError(t, err)
	return u.ID
}

func TestCreateAndGetWorkout(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	id, err := svc.Create(ctx, alice, "2026-08-30", "leg day", []ExerciseInput{
		{Name: "Squat", Sets: intPtr(5), Reps: intPtr(5), Weight: floatPtr(80)},
		{Name: "Lunge"},
	})
	require.NoError(t, err)

	workout, exercises, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, "leg day", workout.Note)
	assert.Equal(t, "2026-08-30", workout.DateISO())
	require.Len(t, exercises, 2)

	assert.Equal(t, "Squat", exercises[0].Name)
	assert.Equal(t, 5, exercises[0].Sets)
	assert.Equal(t, 5, exercises[0].Reps)
	require.NotNil(t, exercises[0].Weight)
	assert.Equal(t, 80.0, *exercises[0].Weight)

	// Omitted sets and reps fall back to the defaults.
	assert.Equal(t, "Lunge", exercises[1].Name)
	assert.Equal(t, 3, exercises[1].Sets)
	assert.Equal(t, 10, exercises[1].Reps)
	assert.Nil(t, exercises[1].Weight)
}

func TestCreateWorkoutDefaultsToToday(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC) }

	id, err := svc.Create(ctx, alice, "", "", nil)
	require.NoError(t, err)

	workout, _, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", workout.DateISO())
}

func TestCreateWorkoutInvalidDate(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	_, err := svc.Create(ctx, alice, "31.08.2026", "", nil)
	requireAppCode(t, err, apperrors.CodeInvalidInput)
}

func TestCreateWorkoutSkipsNamelessEntries(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	id, err := svc.Create(ctx, alice, "2026-08-30", "", []ExerciseInput{
		{Name: "  "},
		{Name: "Deadlift"},
		{Name: ""},
	})
	require.NoError(t, err)

	_, exercises, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Deadlift", exercises[0].Name)
}

func TestCreateWorkoutExerciseValidation(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	tests := []struct {
		name  string
		input ExerciseInput
	}{
		{"name too short", ExerciseInput{Name: "x"}},
		{"sets out of range", ExerciseInput{Name: "Squat", Sets: intPtr(21)}},
		{"zero sets", ExerciseInput{Name: "Squat", Sets: intPtr(0)}},
		{"reps out of range", ExerciseInput{Name: "Squat", Reps: intPtr(101)}},
		{"negative weight", ExerciseInput{Name: "Squat", Weight: floatPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice, "", "", []ExerciseInput{tt.input})
			requireAppCode(t, err, apperrors.CodeInvalidInput)
		})
	}
}

func TestWorkoutOwnershipIsolation(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")
	bob := registerUser(t, ctx, users, "bob")

	id, err := svc.Create(ctx, alice, "2026-08-30", "", []ExerciseInput{{Name: "Squat"}})
	require.NoError(t, err)

	// Not-owned and nonexistent look the same.
	_, _, err = svc.Get(ctx, bob, id)
	requireAppCode(t, err, apperrors.CodeNotFound)

	err = svc.Delete(ctx, bob, id)
	requireAppCode(t, err, apperrors.CodeNotFound)

	_, err = svc.AddExercise(ctx, bob, id, ExerciseInput{Name: "Bench press"})
	requireAppCode(t, err, apperrors.CodeNotFound)

	bobList, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	// The owner still sees it untouched.
	_, exercises, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Len(t, exercises, 1)
}

func TestDeleteWorkoutCascades(t *testing.T) {
	ctx, store, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	id, err := svc.Create(ctx, alice, "2026-08-30", "", []ExerciseInput{
		{Name: "Squat"}, {Name: "Bench press"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, id))

	_, _, err = svc.Get(ctx, alice, id)
	requireAppCode(t, err, apperrors.CodeNotFound)

	store.mu.Lock()
	assert.Empty(t, store.exercises)
	store.mu.Unlock()
}

func TestAddAndDeleteExercise(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")
	bob := registerUser(t, ctx, users, "bob")

	workoutID, err := svc.Create(ctx, alice, "2026-08-30", "", nil)
	require.NoError(t, err)

	exerciseID, err := svc.AddExercise(ctx, alice, workoutID, ExerciseInput{Name: "Pull-up", Reps: intPtr(8)})
	require.NoError(t, err)

	// Another user cannot delete it.
	_, err = svc.DeleteExercise(ctx, bob, exerciseID)
	requireAppCode(t, err, apperrors.CodeNotFound)

	parentID, err := svc.DeleteExercise(ctx, alice, exerciseID)
	require.NoError(t, err)
	assert.Equal(t, workoutID, parentID)

	_, exercises, err := svc.Get(ctx, alice, workoutID)
	require.NoError(t, err)
	assert.Empty(t, exercises)
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	old, err := svc.Create(ctx, alice, "2026-08-01", "old", nil)
	require.NoError(t, err)
	recent, err := svc.Create(ctx, alice, "2026-08-30", "recent", []ExerciseInput{{Name: "Squat"}})
	require.NoError(t, err)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent, list[0].ID)
	assert.Equal(t, old, list[1].ID)
	assert.Equal(t, 1, list[0].ExerciseCount)
	assert.Equal(t, 0, list[1].ExerciseCount)
}

func TestStatsRecentWindow(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	// Seven workouts, one exercise each; only the five most recent count.
	for day := 1; day <= 7; day++ {
		date := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		_, err := svc.Create(ctx, alice, date, "", []ExerciseInput{{Name: "Squat"}})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalWorkouts)
	assert.Equal(t, 5, stats.RecentExercises)
}

func TestStatsEmptyUser(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	stats, err := svc.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestQuickstart(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	id, err := svc.Quickstart(ctx, alice, "Expert")
	require.NoError(t, err)

	workout, exercises, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", workout.DateISO())
	assert.Contains(t, workout.Note, "Expert")
	require.Len(t, exercises, 3)
	for _, ex := range exercises {
		assert.Equal(t, 5, ex.Sets)
		assert.Equal(t, 8, ex.Reps)
		assert.Nil(t, ex.Weight)
	}
}

func TestQuickstartUnknownLevel(t *testing.T) {
	ctx, _, users, svc := newWorkoutFixture(t)
	alice := registerUser(t, ctx, users, "alice")

	_, err := svc.Quickstart(ctx, alice, "legend")
	requireAppCode(t, err, apperrors.CodeInvalidInput)
}

func TestCatalogIsCopied(t *testing.T) {
	_, _, _, svc := newWorkoutFixture(t)

	first := svc.Catalog()
	require.NotEmpty(t, first)
	first[0] = "mutated"

	second := svc.Catalog()
	assert.NotEqual(t, "mutated", second[0])
}
