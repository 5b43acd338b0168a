// Package ports defines the interfaces between the castlet core and its
// adapters: the session contract shared by every transport, the transport
// selection contract used by the negotiator and the receiver bootstrapper,
// the application registry, and the capabilities the runtime environment
// must provide (native cast library, display surfaces).
//
// Implementations live under pkg/adapters. Contract test helpers for
// registry implementations live in contract.go.
package ports
