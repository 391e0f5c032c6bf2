// Package cmd implements the goalcheck CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the GoalForge API checks against a backend
//   - validate: Resolve and check the configuration without running
//   - list: Display the checks in execution order
//   - mock: Serve the reference backend locally
//   - init: Write a goalcheck.yaml with default settings
//   - version: Show goalcheck version information
//
// Settings come from flags, then GOALCHECK_* environment variables, then the
// config file, then built-in defaults.
package cmd
