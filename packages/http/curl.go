package http

import (
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

const redactedToken = "Bearer ***"

// Curl renders the request as a shell-safe curl command line. Bearer tokens
// are redacted.
func (r *Request) Curl() string {
	var b commandBuilder
	b.add("curl", "-sS", "-X", r.Method)

	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := r.Headers[k]
		if strings.EqualFold(k, "Authorization") && strings.HasPrefix(v, "Bearer ") {
			v = redactedToken
		}
		b.add("-H", k+": "+v)
	}

	if len(r.Body) > 0 {
		b.add("--data-raw", string(r.Body))
	}

	b.add(r.BuildURL())
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
