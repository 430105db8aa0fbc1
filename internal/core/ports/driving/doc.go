// Package driving defines the interfaces through which external actors
// (CLI, inference engines) drive the core.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
