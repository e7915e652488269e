// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into an app.Config whose Patch holds only the flags
// the user actually set.
package cli
