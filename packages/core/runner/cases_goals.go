package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/assertions"
	"github.com/abdul-hamid-achik/goalcheck/packages/capture"
)

const (
	scratchGoalText  = "Test Goal - Learn new technology"
	updatedGoalText  = "Updated Test Goal - Master new technology"
	goalDeadlineDays = 30
	errNoGoalID      = "No goal ID provided"
)

// CreateGoal files a high-priority goal due in 30 days under categoryID and
// returns its id, or "" on failure.
func (r *Runner) CreateGoal(ctx context.Context, categoryID string) string {
	const name = "Create Goal"
	if categoryID == "" {
		r.Log(name, false, errNoCategoryID, nil)
		return ""
	}

	out := r.Request(ctx, "POST", "goals", map[string]string{
		"category_id": categoryID,
		"text":        scratchGoalText,
		"priority":    "high",
		"deadline":    r.now().AddDate(0, 0, goalDeadlineDays).Format(time.DateOnly),
	}, 200)

	if id, ok := capture.FromBody(out.Raw).String("id"); out.Matched && ok {
		r.goals.Add(id)
		r.logOutcome(out, name, true, "Goal ID: "+id)
		return id
	}

	r.logOutcome(out, name, false, statusDetails(out))
	return ""
}

// GoalsByCategory lists the goals of categoryID and checks the reply is an
// array.
func (r *Runner) GoalsByCategory(ctx context.Context, categoryID string) bool {
	const name = "Get Goals by Category"
	if categoryID == "" {
		r.Log(name, false, errNoCategoryID, nil)
		return false
	}

	out := r.request(ctx, "GET", "goals", map[string]string{"category_id": categoryID}, nil, 200)
	if !out.Matched || !assertions.IsArray(out.Raw).Passed {
		r.logOutcome(out, name, false, statusDetails(out))
		return false
	}
	if !r.matchSchema(out, name, assertions.GoalListSchema) {
		return false
	}

	r.logOutcome(out, name, true, fmt.Sprintf("Found %d goals", len(out.JSON().Array())))
	return true
}

// ToggleGoal flips the goal's completion and checks completed is reported.
func (r *Runner) ToggleGoal(ctx context.Context, goalID string) bool {
	const name = "Toggle Goal Completion"
	if goalID == "" {
		r.Log(name, false, errNoGoalID, nil)
		return false
	}

	out := r.Request(ctx, "PATCH", "goals/"+goalID+"/toggle", nil, 200)
	if out.Matched && assertions.RequireFields(out.Raw, "completed").Passed {
		r.logOutcome(out, name, true, fmt.Sprintf("Goal completed: %s", out.JSON().Get("completed").Raw))
		return true
	}
	r.logOutcome(out, name, false, statusDetails(out))
	return false
}

// UpdateGoal rewrites the goal text and checks it is echoed.
func (r *Runner) UpdateGoal(ctx context.Context, goalID string) bool {
	const name = "Update Goal"
	if goalID == "" {
		r.Log(name, false, errNoGoalID, nil)
		return false
	}

	out := r.Request(ctx, "PUT", "goals/"+goalID, map[string]string{
		"text":     updatedGoalText,
		"priority": "medium",
	}, 200)

	if out.Matched && assertions.FieldEquals(out.Raw, "text", updatedGoalText).Passed {
		r.logOutcome(out, name, true, "Goal updated successfully")
		return true
	}
	r.logOutcome(out, name, false, statusDetails(out))
	return false
}

// DeleteGoal deletes the goal and stops tracking it.
func (r *Runner) DeleteGoal(ctx context.Context, goalID string) bool {
	const name = "Delete Goal"
	if goalID == "" {
		r.Log(name, false, errNoGoalID, nil)
		return false
	}

	out := r.Request(ctx, "DELETE", "goals/"+goalID, nil, 200)
	if out.Matched {
		r.goals.Remove(goalID)
		r.logOutcome(out, name, true, "Goal deleted successfully")
		return true
	}
	r.logOutcome(out, name, false, statusDetails(out))
	return false
}
