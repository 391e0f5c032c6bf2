// Package builtin provides the template functions available in goalcheck
// configuration values.
//
// Available functions:
//   - uuid(): Random UUID v4
//   - now(): Current UTC time in RFC 3339
//   - timestamp(), timestampMs(): Current Unix time
//   - date(layout): Current UTC date, Go layout (default 2006-01-02)
//   - random(min, max): Random integer in range
//   - randomString(length): Random alphanumeric string
//   - randomEmail(): Random example address
//
// Functions are invoked as {{$name(args)}}, e.g.
// "test_{{$date(20060102_150405)}}@example.com".
package builtin
