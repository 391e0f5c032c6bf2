package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Goal struct {
	ID         string
	UserID     string
	CategoryID string
	Text       string
	Priority   string
	Deadline   string
	Completed  bool
	CreatedAt  time.Time
}

// GoalUpdate holds the fields to change; nil fields are left alone.
type GoalUpdate struct {
	CategoryID *string
	Text       *string
	Priority   *string
	Deadline   *string
}

const goalSelect = `SELECT id, user_id, category_id, text, priority, deadline, completed, created_at FROM goals `

// CreateGoal files a goal under one of the user's categories. A category the
// user does not own yields ErrNotFound.
func (s *Store) CreateGoal(ctx context.Context, g Goal) (*Goal, error) {
	if _, err := s.GetCategory(ctx, g.UserID, g.CategoryID); err != nil {
		return nil, err
	}
	if g.Priority == "" {
		g.Priority = "medium"
	}

	g.ID = newID()
	created := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, category_id, text, priority, deadline, completed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.CategoryID, g.Text, g.Priority, g.Deadline, g.Completed, created)
	if err != nil {
		return nil, fmt.Errorf("inserting goal: %w", err)
	}
	g.CreatedAt = parseTime(created)
	return &g, nil
}

// ListGoals returns the user's goals in creation order, optionally limited to
// one category.
func (s *Store) ListGoals(ctx context.Context, userID, categoryID string) ([]*Goal, error) {
	query := goalSelect + `WHERE user_id = ?`
	args := []any{userID}
	if categoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return goals, nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id string) (*Goal, error) {
	g, err := scanGoal(s.db.QueryRowContext(ctx, goalSelect+`WHERE user_id = ? AND id = ?`, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id string, upd GoalUpdate) (*Goal, error) {
	if upd.CategoryID != nil {
		if _, err := s.GetCategory(ctx, userID, *upd.CategoryID); err != nil {
			return nil, err
		}
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE goals SET
	category_id = COALESCE(?, category_id),
	text = COALESCE(?, text),
	priority = COALESCE(?, priority),
	deadline = COALESCE(?, deadline)
WHERE user_id = ? AND id = ?`,
		nullable(upd.CategoryID), nullable(upd.Text), nullable(upd.Priority), nullable(upd.Deadline), userID, id)
	if err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}
	if err := expectOne(res); err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, userID, id)
}

// ToggleGoal flips the completed flag and returns the updated goal.
func (s *Store) ToggleGoal(ctx context.Context, userID, id string) (*Goal, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET completed = 1 - completed WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return nil, fmt.Errorf("toggling goal: %w", err)
	}
	if err := expectOne(res); err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, userID, id)
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	return expectOne(res)
}

func scanGoal(row scanner) (*Goal, error) {
	var (
		g       Goal
		created string
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.CategoryID, &g.Text, &g.Priority, &g.Deadline, &g.Completed, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	g.CreatedAt = parseTime(created)
	return &g, nil
}
