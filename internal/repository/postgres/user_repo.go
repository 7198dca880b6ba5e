package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

const userColumns = `id, username, password_hash, email, role, oauth_provider, oauth_sub, age, height_cm, weight_kg, created_at`

// pgUserRepository implements repository.UserRepository.
type pgUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository backed by Postgres.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &pgUserRepository{pool: pool}
}

// Create inserts a new user and returns the assigned id.
func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	const q = `
		INSERT INTO users (username, password_hash, email, role, oauth_provider, oauth_sub)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q,
		user.Username,
		user.PasswordHash,
		nullable(user.Email),
		user.Role,
		nullable(user.OAuthProvider),
		nullable(user.OAuthSub),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return user.ID, nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getWhere(ctx, `username = $1`, username)
}

func (r *pgUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getWhere(ctx, `email = $1`, email)
}

func (r *pgUserRepository) GetByOAuthSub(ctx context.Context, provider, sub string) (*domain.User, error) {
	return r.getWhere(ctx, `oauth_provider = $1 AND oauth_sub = $2`, provider, sub)
}

// UpdateProfile replaces all three profile fields at once.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, userID int64, p repository.ProfileUpdate) error {
	const q = `UPDATE users SET age = $2, height_cm = $3, weight_kg = $4 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, p.Age, p.HeightCm, p.WeightKg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListWithWorkoutCounts returns every user with a derived workout count,
// ordered by id.
func (r *pgUserRepository) ListWithWorkoutCounts(ctx context.Context) ([]repository.UserWithCount, error) {
	const q = `
		SELECT ` + userColumns + `,
			(SELECT count(*) FROM workouts w WHERE w.user_id = users.id) AS workout_count
		FROM users
		ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.UserWithCount
	for rows.Next() {
		var uc repository.UserWithCount
		var email, provider, sub *string
		err := rows.Scan(&uc.ID, &uc.Username, &uc.PasswordHash, &email, &uc.Role,
			&provider, &sub, &uc.Age, &uc.HeightCm, &uc.WeightKg, &uc.CreatedAt,
			&uc.WorkoutCount)
		if err != nil {
			return nil, err
		}
		uc.Email = deref(email)
		uc.OAuthProvider = deref(provider)
		uc.OAuthSub = deref(sub)
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (r *pgUserRepository) getWhere(ctx context.Context, where string, args ...any) (*domain.User, error) {
	var u domain.User
	var email, provider, sub *string
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &email, &u.Role,
		&provider, &sub, &u.Age, &u.HeightCm, &u.WeightKg, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Email = deref(email)
	u.OAuthProvider = deref(provider)
	u.OAuthSub = deref(sub)
	return &u, nil
}

// nullable maps the empty string to SQL NULL so the unique constraints on
// email and oauth_sub only see real values.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// mapUniqueViolation converts Postgres unique-constraint errors into the
// repository sentinels the service layer understands.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return repository.ErrDuplicateUsername
		case "users_email_key":
			return repository.ErrDuplicateEmail
		}
	}
	return err
}
