// Package env loads .env files and resolves {{...}} references in
// configuration values.
//
// Supported references:
//   - {{name}} for variables set on the Resolver
//   - {{$NAME}} for OS environment variables
//   - {{$fn(args)}} for built-in functions such as date, uuid or randomEmail
package env
