package api

import (
	"context"
	"errors"

	"fittrack/internal/domain"
	"fittrack/internal/oauth"
	"fittrack/internal/repository"
	"fittrack/internal/service"
)

// Function-field stubs for the service interfaces. Each test sets only the
// fields it exercises; calling an unset field fails loudly.

var errStubNotSet = errors.New("stub not configured")

type stubAuthService struct {
	registerFn  func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn     func(ctx context.Context, username, password string) (*domain.User, error)
	federatedFn func(ctx context.Context, provider, subjectID, email, displayName string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if s.registerFn == nil {
		return nil, errStubNotSet
	}
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if s.loginFn == nil {
		return nil, errStubNotSet
	}
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) AuthenticateFederated(ctx context.Context, provider, subjectID, email, displayName string) (*domain.User, error) {
	if s.federatedFn == nil {
		return nil, errStubNotSet
	}
	return s.federatedFn(ctx, provider, subjectID, email, displayName)
}

type stubUserService struct {
	getByIDFn       func(ctx context.Context, userID int64) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID int64, age int, heightCm, weightKg float64) error
	listUsersFn     func(ctx context.Context, requester *domain.User) ([]repository.UserWithCount, error)
}

func (s *stubUserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	if s.getByIDFn == nil {
		return nil, errStubNotSet
	}
	return s.getByIDFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID int64, age int, heightCm, weightKg float64) error {
	if s.updateProfileFn == nil {
		return errStubNotSet
	}
	return s.updateProfileFn(ctx, userID, age, heightCm, weightKg)
}

func (s *stubUserService) ListUsers(ctx context.Context, requester *domain.User) ([]repository.UserWithCount, error) {
	if s.listUsersFn == nil {
		return nil, errStubNotSet
	}
	return s.listUsersFn(ctx, requester)
}

type stubWorkoutService struct {
	listFn           func(ctx context.Context, userID int64) ([]domain.Workout, error)
	getFn            func(ctx context.Context, userID, workoutID int64) (*domain.Workout, []domain.Exercise, error)
	createFn         func(ctx context.Context, userID int64, date, note string, exercises []service.ExerciseInput) (int64, error)
	deleteFn         func(ctx context.Context, userID, workoutID int64) error
	addExerciseFn    func(ctx context.Context, userID, workoutID int64, in service.ExerciseInput) (int64, error)
	deleteExerciseFn func(ctx context.Context, userID, exerciseID int64) (int64, error)
	statsFn          func(ctx context.Context, userID int64) (service.Stats, error)
	quickstartFn     func(ctx context.Context, userID int64, level string) (int64, error)
	catalogFn        func() []string
}

func (s *stubWorkoutService) List(ctx context.Context, userID int64) ([]domain.Workout, error) {
	if s.listFn == nil {
		return nil, errStubNotSet
	}
	return s.listFn(ctx, userID)
}

func (s *stubWorkoutService) Get(ctx context.Context, userID, workoutID int64) (*domain.Workout, []domain.Exercise, error) {
	if s.getFn == nil {
		return nil, nil, errStubNotSet
	}
	return s.getFn(ctx, userID, workoutID)
}

func (s *stubWorkoutService) Create(ctx context.Context, userID int64, date, note string, exercises []service.ExerciseInput) (int64, error) {
	if s.createFn == nil {
		return 0, errStubNotSet
	}
	return s.createFn(ctx, userID, date, note, exercises)
}

func (s *stubWorkoutService) Delete(ctx context.Context, userID, workoutID int64) error {
	if s.deleteFn == nil {
		return errStubNotSet
	}
	return s.deleteFn(ctx, userID, workoutID)
}

func (s *stubWorkoutService) AddExercise(ctx context.Context, userID, workoutID int64, in service.ExerciseInput) (int64, error) {
	if s.addExerciseFn == nil {
		return 0, errStubNotSet
	}
	return s.addExerciseFn(ctx, userID, workoutID, in)
}

func (s *stubWorkoutService) DeleteExercise(ctx context.Context, userID, exerciseID int64) (int64, error) {
	if s.deleteExerciseFn == nil {
		return 0, errStubNotSet
	}
	return s.deleteExerciseFn(ctx, userID, exerciseID)
}

func (s *stubWorkoutService) Stats(ctx context.Context, userID int64) (service.Stats, error) {
	if s.statsFn == nil {
		return service.Stats{}, errStubNotSet
	}
	return s.statsFn(ctx, userID)
}

func (s *stubWorkoutService) Quickstart(ctx context.Context, userID int64, level string) (int64, error) {
	if s.quickstartFn == nil {
		return 0, errStubNotSet
	}
	return s.quickstartFn(ctx, userID, level)
}

func (s *stubWorkoutService) Catalog() []string {
	if s.catalogFn == nil {
		return nil
	}
	return s.catalogFn()
}

type stubProvider struct {
	authURLFn  func(state string) string
	exchangeFn func(ctx context.Context, code string) (*oauth.UserInfo, error)
}

func (p *stubProvider) AuthURL(state string) string {
	if p.authURLFn == nil {
		return "https://accounts.test/auth?state=" + state
	}
	return p.authURLFn(state)
}

func (p *stubProvider) Exchange(ctx context.Context, code string) (*oauth.UserInfo, error) {
	if p.exchangeFn == nil {
		return nil, errStubNotSet
	}
	return p.exchangeFn(ctx, code)
}

type stubExportService struct {
	exportFn func(ctx context.Context, userID int64) (*service.ExportResult, error)
}

func (s *stubExportService) ExportCSV(ctx context.Context, userID int64) (*service.ExportResult, error) {
	if s.exportFn == nil {
		return nil, errStubNotSet
	}
	return s.exportFn(ctx, userID)
}
