package runner

import (
	"context"
	"time"
)

const (
	SectionAuth       = "Authentication"
	SectionCategories = "Categories"
	SectionGoals      = "Goals"
)

const abortRegistration = "Registration failed - stopping tests"

const cleanupTimeout = 30 * time.Second

// RunAll executes the whole suite and returns its report. Calling RunAll again
// starts from a fresh session.
func (r *Runner) RunAll(ctx context.Context) *RunResult {
	r.reset()
	start := time.Now()
	r.logger.Info("suite started", "base_url", r.session.BaseURL, "email", r.config.User.Email)

	r.CheckRoot(ctx)

	r.startSection(SectionAuth)
	if !r.Register(ctx) {
		r.listener.Aborted(abortRegistration)
		return r.finish(ctx, start, abortRegistration)
	}
	r.Login(ctx)
	r.Profile(ctx)
	r.InvalidLogin(ctx)

	r.startSection(SectionCategories)
	r.DefaultCategories(ctx)
	categoryID := r.CreateCategory(ctx)
	if categoryID != "" {
		r.UpdateCategory(ctx, categoryID)
	}
	r.CategoriesProgress(ctx)

	r.startSection(SectionGoals)
	if categoryID != "" {
		goalID := r.CreateGoal(ctx, categoryID)
		r.GoalsByCategory(ctx, categoryID)
		if goalID != "" {
			r.ToggleGoal(ctx, goalID)
			r.UpdateGoal(ctx, goalID)
			r.DeleteGoal(ctx, goalID)
		}
		r.DeleteCategory(ctx, categoryID)
	}

	return r.finish(ctx, start, "")
}

func (r *Runner) reset() {
	r.session = Session{BaseURL: r.session.BaseURL}
	r.categories = Tracker{}
	r.goals = Tracker{}
	r.section = ""
	r.results = nil
	r.run = 0
	r.passed = 0
	r.latency.Reset()
}

func (r *Runner) finish(ctx context.Context, start time.Time, abortReason string) *RunResult {
	if r.config.Cleanup {
		r.cleanup(ctx)
	}

	result := &RunResult{
		BaseURL:     r.session.BaseURL,
		StartedAt:   start,
		Results:     r.Results(),
		Run:         r.run,
		Passed:      r.passed,
		Failed:      r.run - r.passed,
		Duration:    time.Since(start),
		Aborted:     abortReason != "",
		AbortReason: abortReason,
		Latency:     r.latency.Summary(),
	}
	r.logger.Info("suite finished",
		"run", result.Run,
		"passed", result.Passed,
		"failed", result.Failed,
		"duration", result.Duration)
	return result
}

// cleanup deletes resources left behind by failed checks, goals first. It
// does not log results and runs even after ctx is cancelled.
func (r *Runner) cleanup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	for _, id := range r.goals.IDs() {
		if out := r.Request(ctx, "DELETE", "goals/"+id, nil, 200); out.Matched {
			r.goals.Remove(id)
			r.logger.Debug("cleaned up goal", "id", id)
		} else {
			r.logger.Warn("goal cleanup failed", "id", id, "status", out.Status)
		}
	}
	for _, id := range r.categories.IDs() {
		if out := r.Request(ctx, "DELETE", "categories/"+id, nil, 200); out.Matched {
			r.categories.Remove(id)
			r.logger.Debug("cleaned up category", "id", id)
		} else {
			r.logger.Warn("category cleanup failed", "id", id, "status", out.Status)
		}
	}
}
