// Package config loads goalcheck configuration.
//
// Configuration is read from goalcheck.yaml, goalcheck.yml, .goalcheck.yaml or
// goalcheck.json in the working directory, or from an explicit --config path.
// Command-line flags are merged on top with Merge, and string values may use
// {{$VAR}} and {{$fn()}} references resolved through env.Resolver.
package config
