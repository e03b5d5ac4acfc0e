package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, created_at
		FROM users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var (
			user      User
			createdAt string
		)
		if err := rows.Scan(&user.ID, &user.Username, &createdAt); err != nil {
			return nil, fmt.Errorf("list users: scan: %w", err)
		}
		parsed, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		user.CreatedAt = parsed
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: iterate: %w", err)
	}
	return out, nil
}

func (r *userRepository) Create(ctx context.Context, username string) (bool, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users(username, created_at) VALUES(?, ?)
	`, username, fmtTime(nowUTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// isUniqueViolation matches the driver's constraint error text; the sqlite
// driver exposes no typed error for it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
