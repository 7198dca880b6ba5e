package service

import (
	"context"
	"sort"
	"sync"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// In-memory repository fakes mirroring the Postgres semantics: scoped reads,
// cascade deletes, unique usernames/emails.

type fakeStore struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	workouts  map[int64]*domain.Workout
	exercises map[int64]*domain.Exercise
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*domain.User),
		workouts:  make(map[int64]*domain.Workout),
		exercises: make(map[int64]*domain.Exercise),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return 0, repository.ErrDuplicateUsername
		}
		if user.Email != "" && u.Email == user.Email {
			return 0, repository.ErrDuplicateEmail
		}
	}
	user.ID = s.id()
	cp := *user
	s.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByOAuthSub(_ context.Context, provider, sub string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.OAuthProvider == provider && u.OAuthSub == sub
	})
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, userID int64, p repository.ProfileUpdate) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	age, h, w := p.Age, p.HeightCm, p.WeightKg
	u.Age = &age
	u.HeightCm = &h
	u.WeightKg = &w
	return nil
}

func (r *fakeUserRepo) ListWithWorkoutCounts(_ context.Context) ([]repository.UserWithCount, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.UserWithCount
	for _, u := range s.users {
		count := 0
		for _, w := range s.workouts {
			if w.UserID == u.ID {
				count++
			}
		}
		out = append(out, repository.UserWithCount{User: *u, WorkoutCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeWorkoutRepo struct{ store *fakeStore }

func (r *fakeWorkoutRepo) CreateWithExercises(_ context.Context, workout *domain.Workout, exercises []domain.Exercise) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	workout.ID = s.id()
	cp := *workout
	s.workouts[workout.ID] = &cp
	for i := range exercises {
		ex := exercises[i]
		ex.ID = s.id()
		ex.WorkoutID = workout.ID
		s.exercises[ex.ID] = &ex
	}
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) ListByUser(_ context.Context, userID int64) ([]domain.Workout, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Workout
	for _, w := range s.workouts {
		if w.UserID != userID {
			continue
		}
		cp := *w
		cp.ExerciseCount = s.exerciseCountLocked(w.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeWorkoutRepo) GetForUser(_ context.Context, workoutID, userID int64) (*domain.Workout, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[workoutID]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *w
	cp.ExerciseCount = s.exerciseCountLocked(w.ID)
	return &cp, nil
}

func (r *fakeWorkoutRepo) DeleteForUser(_ context.Context, workoutID, userID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[workoutID]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.workouts, workoutID)
	for id, ex := range s.exercises {
		if ex.WorkoutID == workoutID {
			delete(s.exercises, id)
		}
	}
	return nil
}

func (r *fakeWorkoutRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.workouts {
		if w.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeWorkoutRepo) RecentExerciseCount(ctx context.Context, userID int64, recent int) (int, error) {
	workouts, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(workouts) > recent {
		workouts = workouts[:recent]
	}
	n := 0
	for _, w := range workouts {
		n += w.ExerciseCount
	}
	return n, nil
}

func (r *fakeWorkoutRepo) HistoryByUser(ctx context.Context, userID int64) ([]repository.HistoryRow, error) {
	workouts, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.HistoryRow
	for _, w := range workouts {
		var exs []*domain.Exercise
		for _, ex := range s.exercises {
			if ex.WorkoutID == w.ID {
				exs = append(exs, ex)
			}
		}
		sort.Slice(exs, func(i, j int) bool { return exs[i].ID < exs[j].ID })
		for _, ex := range exs {
			out = append(out, repository.HistoryRow{
				WorkoutID: w.ID,
				Date:      w.Date,
				Note:      w.Note,
				Exercise:  ex.Name,
				Sets:      ex.Sets,
				Reps:      ex.Reps,
				Weight:    ex.Weight,
			})
		}
	}
	return out, nil
}

func (s *fakeStore) exerciseCountLocked(workoutID int64) int {
	n := 0
	for _, ex := range s.exercises {
		if ex.WorkoutID == workoutID {
			n++
		}
	}
	return n
}

type fakeExerciseRepo struct{ store *fakeStore }

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	exercise.ID = s.id()
	cp := *exercise
	s.exercises[exercise.ID] = &cp
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) ListByWorkout(_ context.Context, workoutID int64) ([]domain.Exercise, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Exercise
	for _, ex := range s.exercises {
		if ex.WorkoutID == workoutID {
			out = append(out, *ex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeExerciseRepo) DeleteForUser(_ context.Context, exerciseID, userID int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.exercises[exerciseID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	w, ok := s.workouts[ex.WorkoutID]
	if !ok || w.UserID != userID {
		return 0, repository.ErrNotFound
	}
	delete(s.exercises, exerciseID)
	return ex.WorkoutID, nil
}

// newFakeRepos builds the fake repository trio over one shared store.
func newFakeRepos() (*fakeStore, repository.UserRepository, repository.WorkoutRepository, repository.ExerciseRepository) {
	store := newFakeStore()
	return store, &fakeUserRepo{store: store}, &fakeWorkoutRepo{store: store}, &fakeExerciseRepo{store: store}
}
