// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Storage: bag discovery primitives and reader/writer sessions
//   - BagReader: sequential message reading from one bag or segment
//   - BagWriter: streaming message writing with segment size cap
//
// # Optional Interfaces
//
// These can be nil - behaviour degrades gracefully:
//
//   - Confirmer: interactive overwrite confirmation. Without it (or on a
//     non-interactive terminal) collisions are treated as declined.
//   - Plotter: time range visualisation. Failures degrade to a warning.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
