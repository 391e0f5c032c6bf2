package builtin

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 15, 9, 30, 5, 0, time.UTC)
}

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry()
	r.SetClock(fixedClock)

	tests := []struct {
		name     string
		expr     string
		expected any
	}{
		{"date default layout", "date()", "2026-01-15"},
		{"date custom layout", "date(20060102_150405)", "20260115_093005"},
		{"quoted layout", `date("2006/01/02")`, "2026/01/15"},
		{"timestamp", "timestamp()", int64(1768469405)},
		{"now", "now()", "2026-01-15T09:30:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := r.Call(tt.expr)
			require.True(t, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestRegistry_CallUnknown(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Call("nope()")
	assert.False(t, ok)

	_, ok = r.Call("not a call")
	assert.False(t, ok)
}

func TestRegistry_UUID(t *testing.T) {
	v, ok := NewRegistry().Call("uuid()")
	require.True(t, ok)

	_, err := uuid.Parse(v.(string))
	assert.NoError(t, err)
}

func TestRegistry_Random(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 50; i++ {
		v, ok := r.Call("random(5, 7)")
		require.True(t, ok)
		assert.GreaterOrEqual(t, v.(int), 5)
		assert.LessOrEqual(t, v.(int), 7)
	}

	s, _ := r.Call("randomString(12)")
	assert.Len(t, s.(string), 12)

	email, _ := r.Call("randomEmail()")
	assert.Contains(t, email.(string), "@example.com")
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("shout", func(args []string) any { return args[0] + "!" })

	assert.True(t, r.Has("shout"))
	v, ok := r.Call("shout(hi)")
	require.True(t, ok)
	assert.Equal(t, "hi!", v)
}
