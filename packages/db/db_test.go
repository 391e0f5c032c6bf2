package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite::memory:", WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		dsn     string
		wantErr bool
	}{
		{name: "sqlite double slash", connStr: "sqlite://./goals.db", dsn: "./goals.db"},
		{name: "sqlite colon", connStr: "sqlite:/tmp/goals.db", dsn: "/tmp/goals.db"},
		{name: "in memory", connStr: "sqlite::memory:", dsn: ":memory:"},
		{name: "whitespace trimmed", connStr: "  sqlite::memory:  ", dsn: ":memory:"},
		{name: "postgres unsupported", connStr: "postgres://localhost/goals", wantErr: true},
		{name: "empty path", connStr: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := parseConnectionString(tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sqlite3", driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.db")
	ctx := context.Background()

	s, err := Open(ctx, "sqlite://"+path, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	u, err := s.CreateUser(ctx, "a@example.com", "A", "pw")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestUsersAndSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "Test@Example.com", "Test User", "TestPass123!")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "test@example.com", u.Email)

	_, err = s.CreateUser(ctx, "test@example.com", "Again", "x")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := s.Authenticate(ctx, "test@example.com", "TestPass123!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "invalid@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := s.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	byToken, err := s.UserByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byToken.ID)

	_, err = s.UserByToken(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Health", "Professional"} {
		_, err := s.CreateCategory(ctx, "u1", name, "", "")
		require.NoError(t, err)
	}
	c, err := s.CreateCategory(ctx, "u1", "Test Category", "🧪", "https://example.com/test.jpg")
	require.NoError(t, err)
	assert.Equal(t, "🧪", c.Icon)
	assert.Zero(t, c.TotalGoals)

	list, err := s.ListCategories(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Health", list[0].Name)
	assert.Equal(t, "Test Category", list[2].Name)

	others, err := s.ListCategories(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others)

	updated, err := s.UpdateCategory(ctx, "u1", c.ID, CategoryUpdate{Name: strPtr("Updated Test Category"), Icon: strPtr("🔬")})
	require.NoError(t, err)
	assert.Equal(t, "Updated Test Category", updated.Name)
	assert.Equal(t, "🔬", updated.Icon)
	assert.Equal(t, "https://example.com/test.jpg", updated.ImageURL)

	_, err = s.UpdateCategory(ctx, "u2", c.ID, CategoryUpdate{Name: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteCategory(ctx, "u1", c.ID))
	_, err = s.GetCategory(ctx, "u1", c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "u1", c.ID), ErrNotFound)
}

func TestGoalsAndProgress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, "u1", "Health", "", "")
	require.NoError(t, err)

	var ids []string
	for _, text := range []string{"run", "swim", "sleep"} {
		g, err := s.CreateGoal(ctx, Goal{UserID: "u1", CategoryID: c.ID, Text: text, Priority: "high", Deadline: "2026-02-14"})
		require.NoError(t, err)
		assert.False(t, g.Completed)
		ids = append(ids, g.ID)
	}

	_, err = s.CreateGoal(ctx, Goal{UserID: "u2", CategoryID: c.ID, Text: "not mine"})
	assert.ErrorIs(t, err, ErrNotFound)

	toggled, err := s.ToggleGoal(ctx, "u1", ids[0])
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	cat, err := s.GetCategory(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.TotalGoals)
	assert.Equal(t, 1, cat.CompletedGoals)
	assert.Equal(t, 33.3, cat.Progress)

	toggled, err = s.ToggleGoal(ctx, "u1", ids[0])
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	updated, err := s.UpdateGoal(ctx, "u1", ids[1], GoalUpdate{Text: strPtr("Updated"), Priority: strPtr("medium")})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Text)
	assert.Equal(t, "medium", updated.Priority)
	assert.Equal(t, "2026-02-14", updated.Deadline)

	list, err := s.ListGoals(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	empty, err := s.ListGoals(ctx, "u1", "other-category")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.DeleteGoal(ctx, "u1", ids[2]))
	assert.ErrorIs(t, s.DeleteGoal(ctx, "u1", ids[2]), ErrNotFound)
	_, err = s.ToggleGoal(ctx, "u2", ids[0])
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteCategory(ctx, "u1", c.ID))
	remaining, err := s.ListGoals(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, progress(0, 0))
	assert.Equal(t, 50.0, progress(1, 2))
	assert.Equal(t, 66.7, progress(2, 3))
	assert.Equal(t, 100.0, progress(4, 4))
}
