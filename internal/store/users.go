package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/hburn/internal/model"
)

// ErrDuplicateUser is returned when a user name is already taken.
var ErrDuplicateUser = errors.New("user already exists")

// AddUser inserts a user and returns its id. Role defaults to "member".
func (s *Store) AddUser(ctx context.Context, u model.User) (int64, error) {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return 0, errors.New("user name is required")
	}
	role := u.Role
	if role == "" {
		role = "member"
	}

	exists, err := s.HasUser(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("user %q: %w", name, ErrDuplicateUser)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, role, created_at) VALUES (?, ?, ?, ?)`,
		name, u.Email, role, s.stamp())
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return res.LastInsertId()
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(email, ''), role FROM users ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// HasUser reports whether a user with this name exists.
func (s *Store) HasUser(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE name = ?`, name).Scan(&n); err != nil {
		return false, fmt.Errorf("checking user %q: %w", name, err)
	}
	return n > 0, nil
}
