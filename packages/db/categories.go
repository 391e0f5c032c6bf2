package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

// Category carries progress aggregated over its goals.
type Category struct {
	ID             string
	UserID         string
	Name           string
	Icon           string
	ImageURL       string
	CreatedAt      time.Time
	TotalGoals     int
	CompletedGoals int
	Progress       float64
}

// CategoryUpdate holds the fields to change; nil fields are left alone.
type CategoryUpdate struct {
	Name     *string
	Icon     *string
	ImageURL *string
}

const categorySelect = `
SELECT c.id, c.user_id, c.name, c.icon, c.image_url, c.created_at,
       COUNT(g.id), COALESCE(SUM(g.completed), 0)
FROM categories c
LEFT JOIN goals g ON g.category_id = c.id
`

func (s *Store) CreateCategory(ctx context.Context, userID, name, icon, imageURL string) (*Category, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, icon, image_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, name, icon, imageURL, s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("inserting category: %w", err)
	}
	return s.GetCategory(ctx, userID, id)
}

// ListCategories returns the user's categories in creation order.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx,
		categorySelect+`WHERE c.user_id = ? GROUP BY c.id ORDER BY c.rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

// GetCategory returns ErrNotFound for unknown ids and for categories owned by
// another user.
func (s *Store) GetCategory(ctx context.Context, userID, id string) (*Category, error) {
	row := s.db.QueryRowContext(ctx,
		categorySelect+`WHERE c.user_id = ? AND c.id = ? GROUP BY c.id`, userID, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *Store) UpdateCategory(ctx context.Context, userID, id string, upd CategoryUpdate) (*Category, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE categories SET
	name = COALESCE(?, name),
	icon = COALESCE(?, icon),
	image_url = COALESCE(?, image_url)
WHERE user_id = ? AND id = ?`,
		nullable(upd.Name), nullable(upd.Icon), nullable(upd.ImageURL), userID, id)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	if err := expectOne(res); err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, userID, id)
}

// DeleteCategory removes the category and every goal filed under it.
func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("deleting category goals: %w", err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*Category, error) {
	var (
		c       Category
		created string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.ImageURL, &created, &c.TotalGoals, &c.CompletedGoals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	c.CreatedAt = parseTime(created)
	c.Progress = progress(c.CompletedGoals, c.TotalGoals)
	return &c, nil
}

// progress is the completed share as a percentage rounded to one decimal.
func progress(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)*1000/float64(total)) / 10
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
