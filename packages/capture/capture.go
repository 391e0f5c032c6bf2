package capture

import (
	"github.com/tidwall/gjson"
)

// Extractor reads values out of a JSON response body.
type Extractor struct {
	bodyJSON gjson.Result
}

// FromBody builds an extractor over an already-read body. A body that is not
// valid JSON yields no values.
func FromBody(raw []byte) *Extractor {
	e := &Extractor{}
	if gjson.ValidBytes(raw) {
		e.bodyJSON = gjson.ParseBytes(raw)
	}
	return e
}

// String returns the body value at path as text. Empty strings and nulls
// count as missing.
func (e *Extractor) String(path string) (string, bool) {
	result := e.bodyJSON.Get(path)
	if !result.Exists() || result.Type == gjson.Null {
		return "", false
	}
	s := result.String()
	return s, s != ""
}
