package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/goalcheck/packages/assertions"
	"github.com/abdul-hamid-achik/goalcheck/packages/capture"
)

const (
	scratchCategoryName  = "Test Category"
	scratchCategoryIcon  = "🧪"
	scratchCategoryImage = "https://example.com/test.jpg"
	updatedCategoryName  = "Updated Test Category"
	updatedCategoryIcon  = "🔬"
	errNoCategoryID      = "No category ID provided"
)

var progressFields = []string{"total_goals", "completed_goals", "progress"}

// DefaultCategories checks a fresh account owns exactly the configured
// default categories.
func (r *Runner) DefaultCategories(ctx context.Context) bool {
	const name = "Default Categories Created"
	out := r.Request(ctx, "GET", "categories", nil, 200)

	if !out.Matched || !assertions.IsArray(out.Raw).Passed {
		r.logOutcome(out, name, false, statusDetails(out))
		return false
	}

	found := assertions.Strings(out.Raw, "name")
	if set := assertions.SameSet(found, r.config.DefaultCategories); !set.Passed {
		r.logOutcome(out, name, false, fmt.Sprintf("Expected [%s], got [%s] (%s)",
			strings.Join(r.config.DefaultCategories, ", "), strings.Join(found, ", "), set.Message))
		return false
	}
	if !r.matchSchema(out, name, assertions.CategoryListSchema) {
		return false
	}

	r.logOutcome(out, name, true, fmt.Sprintf("Found: [%s]", strings.Join(found, ", ")))
	return true
}

// CreateCategory creates the scratch category and returns its id, or "" on
// failure.
func (r *Runner) CreateCategory(ctx context.Context) string {
	const name = "Create Category"
	out := r.Request(ctx, "POST", "categories", map[string]string{
		"name":      scratchCategoryName,
		"icon":      scratchCategoryIcon,
		"image_url": scratchCategoryImage,
	}, 200)

	if id, ok := capture.FromBody(out.Raw).String("id"); out.Matched && ok {
		r.categories.Add(id)
		r.logOutcome(out, name, true, "Category ID: "+id)
		return id
	}

	r.logOutcome(out, name, false, statusDetails(out))
	return ""
}

// UpdateCategory renames the category and checks the new name is echoed.
func (r *Runner) UpdateCategory(ctx context.Context, id string) bool {
	const name = "Update Category"
	if id == "" {
		r.Log(name, false, errNoCategoryID, nil)
		return false
	}

	out := r.Request(ctx, "PUT", "categories/"+id, map[string]string{
		"name": updatedCategoryName,
		"icon": updatedCategoryIcon,
	}, 200)

	if out.Matched && assertions.FieldEquals(out.Raw, "name", updatedCategoryName).Passed {
		r.logOutcome(out, name, true, "Category updated successfully")
		return true
	}
	r.logOutcome(out, name, false, statusDetails(out))
	return false
}

// CategoriesProgress checks the first listed category carries progress fields.
func (r *Runner) CategoriesProgress(ctx context.Context) bool {
	const name = "Categories with Progress"
	out := r.Request(ctx, "GET", "categories", nil, 200)

	if !out.Matched || !assertions.NonEmptyArray(out.Raw).Passed {
		r.logOutcome(out, name, false, statusDetails(out))
		return false
	}

	first := []byte(out.JSON().Get("0").Raw)
	if check := assertions.RequireFields(first, progressFields...); !check.Passed {
		missing, _ := check.Actual.([]string)
		r.logOutcome(out, name, false, "Missing fields: "+strings.Join(missing, ", "))
		return false
	}

	r.logOutcome(out, name, true, "Progress fields present: "+strings.Join(progressFields, ", "))
	return true
}

// DeleteCategory deletes the category and stops tracking it.
func (r *Runner) DeleteCategory(ctx context.Context, id string) bool {
	const name = "Delete Category"
	if id == "" {
		r.Log(name, false, errNoCategoryID, nil)
		return false
	}

	out := r.Request(ctx, "DELETE", "categories/"+id, nil, 200)
	if out.Matched {
		r.categories.Remove(id)
		r.logOutcome(out, name, true, "Category deleted successfully")
		return true
	}
	r.logOutcome(out, name, false, statusDetails(out))
	return false
}

// matchSchema validates a list payload when StrictSchema is set and logs the
// failure. Without StrictSchema it always passes.
func (r *Runner) matchSchema(out *Outcome, name, schema string) bool {
	if !r.config.StrictSchema {
		return true
	}
	if res := assertions.MatchSchema(out.Raw, schema); !res.Passed {
		r.logOutcome(out, name, false, res.Message)
		return false
	}
	return true
}
