package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pharmsys/m/domain"
)

// ErrEmailTaken is returned when a registration reuses an existing email.
var ErrEmailTaken = errors.New("email already exists")

const userColumns = `id, email, password, name, role, permissions, created_at, updated_at`

// CreateUser inserts a new account and fills in its id.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password, name, role, permissions) VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.Password, user.Name, user.Role, user.Permissions)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUserByEmail returns the account registered under email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

// ListUsers returns every account.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, err
}

// UpdateUserPermissions replaces the permission set of an account.
func (s *Store) UpdateUserPermissions(ctx context.Context, id int64, permissions string) (domain.User, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET permissions = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, permissions, id)
	if err != nil {
		return domain.User{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return domain.User{}, err
	}
	if rows == 0 {
		return domain.User{}, ErrNotFound
	}

	var user domain.User
	err = s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return user, err
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
