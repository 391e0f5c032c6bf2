// Package output renders suite reports.
//
// Supported output formats:
//   - Console: colored terminal output, printed live while the suite runs
//   - JSON: machine-readable report
//   - JUnit: JUnit XML for CI integration, one test suite per section
//   - TAP: Test Anything Protocol version 13
//   - XLSX: spreadsheet with one row per check and a summary block
//
// Every formatter implements Formatter. Formats that accumulate results
// before writing also implement Flushable.
package output
