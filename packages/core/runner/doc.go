// Package runner executes the GoalForge API check suite.
//
// A Runner owns one HTTP client and one Session. RunAll issues the checks
// strictly in order, one request in flight at a time: API root, registration
// and login, profile, invalid login, category CRUD, progress fields and goal
// CRUD. Each check appends an immutable TestResult to the run log. A failed
// registration aborts the remaining checks; any other failure is recorded and
// the suite continues.
//
// Transport problems never surface as errors: Request always returns an
// Outcome, with Status 0 and an {"error": ...} body when the call could not
// complete.
package runner
