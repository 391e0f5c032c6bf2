package runner

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/goalcheck/packages/assertions"
	"github.com/abdul-hamid-achik/goalcheck/packages/capture"
)

const (
	invalidLoginEmail    = "invalid@example.com"
	invalidLoginPassword = "wrongpassword"
)

// CheckRoot calls GET /api/.
func (r *Runner) CheckRoot(ctx context.Context) bool {
	out := r.Request(ctx, "GET", "", nil, 200)
	r.logOutcome(out, "API Root Endpoint", out.Matched, fmt.Sprintf("Status: %d", out.Status))
	return out.Matched
}

// Register creates the suite's user and stores its token and id on the session.
func (r *Runner) Register(ctx context.Context) bool {
	const name = "User Registration"
	out := r.Request(ctx, "POST", "auth/register", map[string]string{
		"email":    r.config.User.Email,
		"password": r.config.User.Password,
		"name":     r.config.User.Name,
	}, 200)

	ex := capture.FromBody(out.Raw)
	token, hasToken := ex.String("token")
	userID, hasUser := ex.String("user.id")
	if out.Matched && hasToken && hasUser {
		r.session.Token = token
		r.session.UserID = userID
		r.logOutcome(out, name, true, "User ID: "+userID)
		return true
	}

	r.logOutcome(out, name, false, statusDetails(out))
	return false
}

// Login authenticates with the registered credentials and replaces the
// session token.
func (r *Runner) Login(ctx context.Context) bool {
	const name = "User Login"
	out := r.Request(ctx, "POST", "auth/login", map[string]string{
		"email":    r.config.User.Email,
		"password": r.config.User.Password,
	}, 200)

	if token, ok := capture.FromBody(out.Raw).String("token"); out.Matched && ok {
		r.session.Token = token
		r.logOutcome(out, name, true, "Login successful")
		return true
	}

	r.logOutcome(out, name, false, statusDetails(out))
	return false
}

// Profile checks GET auth/me returns the registered user.
func (r *Runner) Profile(ctx context.Context) bool {
	const name = "Get User Profile"
	out := r.Request(ctx, "GET", "auth/me", nil, 200)

	if !out.Matched || !assertions.RequireFields(out.Raw, "id", "email").Passed {
		r.logOutcome(out, name, false, statusDetails(out))
		return false
	}

	ex := capture.FromBody(out.Raw)
	if r.session.UserID != "" {
		if id, _ := ex.String("id"); id != r.session.UserID {
			r.logOutcome(out, name, false, fmt.Sprintf("User ID mismatch: expected %s, got %s", r.session.UserID, id))
			return false
		}
	}

	userName, _ := ex.String("name")
	r.logOutcome(out, name, true, "User: "+userName)
	return true
}

// InvalidLogin expects wrong credentials to be rejected with 401. The session
// is left untouched.
func (r *Runner) InvalidLogin(ctx context.Context) bool {
	const name = "Invalid Login (Expected 401)"
	out := r.Request(ctx, "POST", "auth/login", map[string]string{
		"email":    invalidLoginEmail,
		"password": invalidLoginPassword,
	}, 401)

	if out.Matched {
		r.logOutcome(out, name, true, "Correctly rejected invalid credentials")
		return true
	}
	r.logOutcome(out, name, false, fmt.Sprintf("Status: %d, should be 401", out.Status))
	return false
}
