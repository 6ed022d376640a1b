package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janmarn/selitev/internal/model"
)

// CreateUser creates a new user. The email must not be taken.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, firstName, lastName string) (*model.User, error) {
	existing, err := GetUserByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name) VALUES (?, ?, ?, ?)`,
		email, passwordHash, firstName, lastName,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if no such user exists.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email, or nil if no such user exists.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUserParams holds the optional fields of a profile update. Nil fields
// are left untouched.
type UpdateUserParams struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
}

// UpdateUser applies a partial profile update.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, p UpdateUserParams) (*model.User, error) {
	if p.Email != nil {
		existing, err := GetUserByEmail(ctx, db, *p.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("email already registered: %w", ErrValidation)
		}
	}

	set := `updated_at = CURRENT_TIMESTAMP`
	var args []any

	if p.Email != nil {
		set += `, email = ?`
		args = append(args, *p.Email)
	}
	if p.FirstName != nil {
		set += `, first_name = ?`
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		set += `, last_name = ?`
		args = append(args, *p.LastName)
	}
	if p.PasswordHash != nil {
		set += `, password_hash = ?`
		args = append(args, *p.PasswordHash)
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx,
		`UPDATE users SET `+set+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	return GetUser(ctx, db, id)
}
