// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Ledger]: Scoped read-decide-append access to the used-names ledger
//   - [LedgerTx]: A single ledger section in which names are drawn
//   - [Publisher]: Hands a composed message to the social network
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system, the X API and zerolog.
package ports
