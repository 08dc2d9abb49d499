// Package domain defines the core business entities for Grompt.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RephraseRequest: One prompt optimisation call
//   - CompletionRequest: The parameters sent to a completion endpoint
//   - Model: A selectable hosted model
//   - Settings: The immutable configuration snapshot built at startup
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
