package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"dinarx/internal/domain/user"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, full_name, phone_number, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var phone sql.NullString
	if u.PhoneNumber != nil {
		phone = sql.NullString{String: *u.PhoneNumber, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.FullName, phone, u.PasswordHash, u.CreatedAt, u.IsActive)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return user.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, full_name, phone_number, password_hash, created_at, is_active
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, email, full_name, phone_number, password_hash, created_at, is_active
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanUser(row *tracedRow) (*user.User, error) {
	var u user.User
	var phone sql.NullString

	err := row.Scan(&u.ID, &u.Email, &u.FullName, &phone, &u.PasswordHash, &u.CreatedAt, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if phone.Valid {
		u.PhoneNumber = &phone.String
	}

	return &u, nil
}
