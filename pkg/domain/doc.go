// Package domain contains the core entities of castlet: the session state
// machine values, the window-transport wire tokens, the command envelope
// and the shared error taxonomy. It has no dependencies on transports or
// adapters.
package domain
