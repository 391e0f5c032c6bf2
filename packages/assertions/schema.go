package assertions

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CategoryListSchema describes GET /api/categories.
const CategoryListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "icon": {"type": ["string", "null"]},
      "image_url": {"type": ["string", "null"]},
      "total_goals": {"type": "integer", "minimum": 0},
      "completed_goals": {"type": "integer", "minimum": 0},
      "progress": {"type": "number", "minimum": 0, "maximum": 100}
    }
  }
}`

// GoalListSchema describes GET /api/goals.
const GoalListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "category_id": {"type": "string"},
      "text": {"type": "string"},
      "priority": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

// MatchSchema validates body against a JSON Schema document.
func MatchSchema(body []byte, schema string) *Result {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return fail("schema", "schema validation error: %v", err)
	}
	if result.Valid() {
		return pass("schema")
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	r := fail("schema", "schema validation failed: %s", strings.Join(errs, "; "))
	r.Actual = fmt.Sprintf("%d errors", len(errs))
	return r
}
