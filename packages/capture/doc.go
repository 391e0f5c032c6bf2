// Package capture extracts values such as tokens and ids from API responses.
//
// Body paths use gjson syntax, e.g. "token", "user.id" or "0.total_goals".
package capture
