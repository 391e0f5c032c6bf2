package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/goalcheck/packages/builtin"
)

var (
	referencePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	callPattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\(.*\)$`)
)

// WarnFunc receives a warning for every reference that could not be resolved.
type WarnFunc func(format string, args ...any)

// Resolver expands {{...}} references. It is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     *builtin.Registry
	lookupEnv func(string) (string, bool)
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
		lookupEnv: os.LookupEnv,
	}
}

// Functions exposes the builtin registry so callers can pin the clock or add
// project-specific helpers.
func (r *Resolver) Functions() *builtin.Registry {
	return r.funcs
}

// SetWarnFunc sets a function to be called for unresolved references.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

// SetEnvLookup replaces os.LookupEnv, mostly for tests.
func (r *Resolver) SetEnvLookup(fn func(string) (string, bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookupEnv = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

// SetVariables registers values for {{name}} references.
func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

// Resolve expands every reference in input. Unresolved references are left
// as-is and reported through the warn func.
func (r *Resolver) Resolve(input string) string {
	return referencePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := r.lookup(expr); ok {
			return val
		}
		r.warn("unresolved reference: %s", expr)
		return match
	})
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		if callPattern.MatchString(name) {
			result, ok := r.funcs.Call(name)
			if !ok {
				return "", false
			}
			return fmt.Sprintf("%v", result), true
		}

		r.mu.RLock()
		lookupEnv := r.lookupEnv
		r.mu.RUnlock()
		if val, ok := lookupEnv(name); ok && val != "" {
			return val, true
		}
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if val, ok := r.variables[expr]; ok {
		return fmt.Sprintf("%v", val), true
	}
	return "", false
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

// Unresolved lists the references in input that Resolve would leave intact,
// in order of appearance.
func (r *Resolver) Unresolved(input string) []string {
	var names []string
	for _, m := range referencePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if _, ok := r.lookup(expr); !ok {
			names = append(names, expr)
		}
	}
	return names
}
