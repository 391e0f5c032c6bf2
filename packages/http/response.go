package http

import (
	"encoding/json"
	"time"
)

// RawResponseKey wraps bodies that are not valid JSON.
const RawResponseKey = "raw_response"

type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// BodyJSON decodes the body as JSON.
func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Payload decodes the body as JSON, falling back to {"raw_response": <text>}
// when the body is empty or not JSON. The returned bytes are always valid JSON
// for the returned value.
func (r *Response) Payload() (any, []byte) {
	if v, err := r.BodyJSON(); err == nil {
		return v, r.Body
	}
	fallback := map[string]any{RawResponseKey: r.BodyString()}
	data, _ := json.Marshal(fallback)
	return fallback, data
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
