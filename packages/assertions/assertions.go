package assertions

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

type Result struct {
	Passed   bool
	Subject  string
	Message  string
	Expected any
	Actual   any
}

func pass(subject string) *Result {
	return &Result{Passed: true, Subject: subject}
}

func fail(subject, format string, args ...any) *Result {
	return &Result{Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func parse(body []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(body), true
}

// RequireFields checks that every field is present on the body object. The
// missing field names are returned in Actual, in the order given.
func RequireFields(body []byte, fields ...string) *Result {
	subject := strings.Join(fields, ", ")
	doc, ok := parse(body)
	if !ok || !doc.IsObject() {
		r := fail(subject, "response is not a JSON object")
		r.Expected, r.Actual = fields, fields
		return r
	}

	var missing []string
	for _, f := range fields {
		if !doc.Get(gjson.Escape(f)).Exists() {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		r := fail(subject, "missing fields: %s", strings.Join(missing, ", "))
		r.Expected, r.Actual = fields, missing
		return r
	}
	return pass(subject)
}

// FieldEquals compares the value at a gjson path with expected. Numbers are
// compared numerically.
func FieldEquals(body []byte, path string, expected any) *Result {
	doc, ok := parse(body)
	if !ok {
		return fail(path, "response is not JSON")
	}
	value := doc.Get(path)
	if !value.Exists() {
		r := fail(path, "%s is missing", path)
		r.Expected = expected
		return r
	}

	actual := value.Value()
	if !equals(actual, expected) {
		r := fail(path, "expected %v, got %v", expected, actual)
		r.Expected, r.Actual = expected, actual
		return r
	}
	return pass(path)
}

func equals(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk {
		return actualNum == expectedNum
	}

	_, aStr := actual.(string)
	_, eStr := expected.(string)
	if aStr && eStr {
		return false
	}
	return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func IsArray(body []byte) *Result {
	doc, ok := parse(body)
	if !ok || !doc.IsArray() {
		return fail("body", "response is not a JSON array")
	}
	return pass("body")
}

func NonEmptyArray(body []byte) *Result {
	if r := IsArray(body); !r.Passed {
		return r
	}
	n := len(gjson.ParseBytes(body).Array())
	if n == 0 {
		r := fail("body", "response array is empty")
		r.Actual = 0
		return r
	}
	return pass("body")
}

// Strings returns the string values at path for every element of a JSON
// array body, e.g. Strings(body, "name").
func Strings(body []byte, path string) []string {
	doc, ok := parse(body)
	if !ok || !doc.IsArray() {
		return nil
	}
	var out []string
	for _, item := range doc.Array() {
		out = append(out, item.Get(path).String())
	}
	return out
}

// SameSet passes when actual holds exactly the expected values, each once,
// in any order.
func SameSet(actual, expected []string) *Result {
	r := &Result{Subject: "set", Expected: expected, Actual: actual}

	want := make(map[string]bool, len(expected))
	for _, e := range expected {
		want[e] = true
	}
	seen := make(map[string]int, len(actual))
	var extra, dupes []string
	for _, a := range actual {
		seen[a]++
		switch {
		case !want[a] && seen[a] == 1:
			extra = append(extra, a)
		case want[a] && seen[a] == 2:
			dupes = append(dupes, a)
		}
	}
	var missing []string
	for _, e := range expected {
		if seen[e] == 0 {
			missing = append(missing, e)
		}
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		problems = append(problems, "unexpected "+strings.Join(extra, ", "))
	}
	if len(dupes) > 0 {
		problems = append(problems, "duplicated "+strings.Join(dupes, ", "))
	}
	if len(problems) > 0 {
		r.Message = strings.Join(problems, "; ")
		return r
	}
	r.Passed = true
	return r
}
