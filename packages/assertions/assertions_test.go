package assertions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		fields  []string
		passed  bool
		missing []string
	}{
		{
			name:   "all present",
			body:   `{"token":"abc","user":{"id":"u-1"}}`,
			fields: []string{"token", "user"},
			passed: true,
		},
		{
			name:    "some missing keep order",
			body:    `{"total_goals":2}`,
			fields:  []string{"total_goals", "completed_goals", "progress"},
			missing: []string{"completed_goals", "progress"},
		},
		{
			name:    "null counts as present",
			body:    `{"icon":null}`,
			fields:  []string{"icon"},
			passed:  true,
			missing: nil,
		},
		{
			name:    "array body",
			body:    `[]`,
			fields:  []string{"id"},
			missing: []string{"id"},
		},
		{
			name:    "non-json body",
			body:    `<html>`,
			fields:  []string{"id"},
			missing: []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RequireFields([]byte(tt.body), tt.fields...)
			assert.Equal(t, tt.passed, r.Passed)
			if !tt.passed {
				assert.Equal(t, tt.missing, r.Actual)
			}
		})
	}
}

func TestRequireFields_Message(t *testing.T) {
	r := RequireFields([]byte(`{"progress":10}`), "total_goals", "completed_goals", "progress")
	assert.Equal(t, "missing fields: total_goals, completed_goals", r.Message)
}

func TestFieldEquals(t *testing.T) {
	body := []byte(`{"name":"Updated Test Category","user":{"id":"u-1"},"total_goals":2,"completed":true}`)

	assert.True(t, FieldEquals(body, "name", "Updated Test Category").Passed)
	assert.True(t, FieldEquals(body, "user.id", "u-1").Passed)
	assert.True(t, FieldEquals(body, "total_goals", 2).Passed)
	assert.True(t, FieldEquals(body, "completed", true).Passed)

	r := FieldEquals(body, "name", "Test Category")
	assert.False(t, r.Passed)
	assert.Equal(t, "expected Test Category, got Updated Test Category", r.Message)

	r = FieldEquals(body, "text", "anything")
	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "missing")

	assert.False(t, FieldEquals([]byte("oops"), "name", "x").Passed)
}

func TestArrays(t *testing.T) {
	assert.True(t, IsArray([]byte(`[]`)).Passed)
	assert.False(t, IsArray([]byte(`{"items":[]}`)).Passed)
	assert.False(t, IsArray([]byte(`not json`)).Passed)

	assert.True(t, NonEmptyArray([]byte(`[{"id":"1"}]`)).Passed)
	r := NonEmptyArray([]byte(`[]`))
	assert.False(t, r.Passed)
	assert.Equal(t, "response array is empty", r.Message)
}

func TestStrings(t *testing.T) {
	body := []byte(`[{"name":"Health"},{"name":"Hobbies"}]`)
	assert.Equal(t, []string{"Health", "Hobbies"}, Strings(body, "name"))
	assert.Nil(t, Strings([]byte(`{}`), "name"))
}

func TestSameSet(t *testing.T) {
	expected := []string{"Health", "Professional", "Spiritual", "Hobbies"}

	tests := []struct {
		name    string
		actual  []string
		passed  bool
		message string
	}{
		{
			name:   "exact match any order",
			actual: []string{"Hobbies", "Health", "Spiritual", "Professional"},
			passed: true,
		},
		{
			name:    "missing one",
			actual:  []string{"Health", "Professional", "Spiritual"},
			message: "missing Hobbies",
		},
		{
			name:    "extra entry",
			actual:  []string{"Health", "Professional", "Spiritual", "Hobbies", "Test Category"},
			message: "unexpected Test Category",
		},
		{
			name:    "duplicate replaces a default",
			actual:  []string{"Health", "Health", "Spiritual", "Hobbies"},
			message: "missing Professional; duplicated Health",
		},
		{
			name:    "empty",
			actual:  nil,
			message: "missing Health, Professional, Spiritual, Hobbies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SameSet(tt.actual, expected)
			assert.Equal(t, tt.passed, r.Passed)
			assert.Equal(t, tt.message, r.Message)
		})
	}
}

func TestMatchSchema(t *testing.T) {
	t.Run("valid category list", func(t *testing.T) {
		body := []byte(`[{"id":"c1","name":"Health","icon":"💪","total_goals":1,"completed_goals":0,"progress":0}]`)
		assert.True(t, MatchSchema(body, CategoryListSchema).Passed)
	})

	t.Run("category without id", func(t *testing.T) {
		r := MatchSchema([]byte(`[{"name":"Health"}]`), CategoryListSchema)
		assert.False(t, r.Passed)
		assert.Contains(t, r.Message, "id")
	})

	t.Run("progress out of range", func(t *testing.T) {
		r := MatchSchema([]byte(`[{"id":"c1","name":"Health","progress":150}]`), CategoryListSchema)
		assert.False(t, r.Passed)
	})

	t.Run("valid goal list", func(t *testing.T) {
		body := []byte(`[{"id":"g1","text":"Learn","completed":false,"priority":"high"}]`)
		assert.True(t, MatchSchema(body, GoalListSchema).Passed)
	})

	t.Run("object instead of list", func(t *testing.T) {
		assert.False(t, MatchSchema([]byte(`{"id":"g1"}`), GoalListSchema).Passed)
	})

	t.Run("body is not json", func(t *testing.T) {
		r := MatchSchema([]byte(`<html>`), GoalListSchema)
		assert.False(t, r.Passed)
		assert.Contains(t, r.Message, "schema validation error")
	})
}
