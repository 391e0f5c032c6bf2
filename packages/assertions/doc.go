// Package assertions checks the shape of GoalForge API responses.
//
// Every check takes the raw JSON body and returns a *Result, so a failed
// check never aborts the caller:
//   - RequireFields reports which of the named fields are absent
//   - FieldEquals compares a gjson path against an expected value
//   - IsArray and NonEmptyArray check list endpoints
//   - SameSet compares name sets exactly, flagging missing, extra and duplicate entries
//   - MatchSchema validates against a JSON Schema (see CategoryListSchema, GoalListSchema)
package assertions
