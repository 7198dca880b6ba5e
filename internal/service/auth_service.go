package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fittrack/internal/apperrors"
	"fittrack/internal/domain"
	"fittrack/internal/logger"
	"fittrack/internal/repository"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 150
	passwordMinLen = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// AuthService turns request credentials into a bound user identity.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// AuthenticateFederated resolves a third-party identity to a local user,
	// creating one when neither the (provider, subject) pair nor the email is
	// known. It never fails for a previously unseen identity.
	AuthenticateFederated(ctx context.Context, provider, subjectID, email, displayName string) (*domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	adminPassword string
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, adminPassword string) AuthService {
	if adminPassword == "" {
		panic("admin password cannot be empty")
	}
	return &authService{
		userRepo:      userRepo,
		adminPassword: adminPassword,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(password) < passwordMinLen {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", passwordMinLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, apperrors.DuplicateUsername()
		}
		return nil, apperrors.Internal(err)
	}

	logger.Info("new user registered", zap.String("username", username))
	return user, nil
}

// Authenticate verifies password credentials. The reserved admin account is
// checked against the configured admin secret and lazily created on first
// use.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.InvalidInput("username and password are required")
	}

	if strings.EqualFold(username, "admin") && password == s.adminPassword {
		return s.ensureAdmin(ctx)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same failure as a wrong password so callers cannot probe for
			// existing usernames.
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("failed login attempt", zap.String("username", username))
		return nil, apperrors.InvalidCredentials()
	}
	return user, nil
}

// ensureAdmin fetches the admin account, creating it on first login.
func (s *authService) ensureAdmin(ctx context.Context) (*domain.User, error) {
	admin, err := s.userRepo.GetByUsername(ctx, "admin")
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	admin = &domain.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if _, err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			// Lost a race with a concurrent first admin login.
			return s.userRepo.GetByUsername(ctx, "admin")
		}
		return nil, apperrors.Internal(err)
	}
	logger.Info("admin account created")
	return admin, nil
}

// AuthenticateFederated binds a federated identity to a user. Lookup order is
// fixed: (provider, subject) first, then email, then create.
func (s *authService) AuthenticateFederated(ctx context.Context, provider, subjectID, email, displayName string) (*domain.User, error) {
	user, err := s.userRepo.GetByOAuthSub(ctx, provider, subjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	if email != "" {
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal(err)
		}
	}

	username := federatedUsername(subjectID, email, displayName)

	// The account can only ever be entered through the federated path: the
	// stored hash is of a random secret nobody knows.
	unusable := make([]byte, 16)
	if _, err := rand.Read(unusable); err != nil {
		return nil, apperrors.Internal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(unusable)), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user = &domain.User{
		Username:      username,
		PasswordHash:  string(hash),
		Email:         email,
		Role:          domain.RoleUser,
		OAuthProvider: provider,
		OAuthSub:      subjectID,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			// Display names are not unique; retry once with a suffix derived
			// from the subject id.
			user.Username = fmt.Sprintf("%s%s", username, shortSub(subjectID))
			if _, err := s.userRepo.Create(ctx, user); err != nil {
				return nil, apperrors.Internal(err)
			}
		} else {
			return nil, apperrors.Internal(err)
		}
	}

	logger.Info("federated account created",
		zap.String("provider", provider),
		zap.String("username", user.Username),
	)
	return user, nil
}

func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return apperrors.InvalidInput(fmt.Sprintf("username must be %d-%d characters", usernameMinLen, usernameMaxLen))
	}
	if !usernamePattern.MatchString(username) {
		return apperrors.InvalidInput("username must be alphanumeric")
	}
	return nil
}

// federatedUsername derives a username from the identity claims: display
// name, then the email local part, then a subject-derived fallback.
func federatedUsername(subjectID, email, displayName string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	if email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
	}
	return "user" + shortSub(subjectID)
}

func shortSub(subjectID string) string {
	if len(subjectID) > 6 {
		return subjectID[:6]
	}
	return subjectID
}
