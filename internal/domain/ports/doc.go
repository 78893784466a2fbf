// Package ports defines the interfaces (ports) that external adapters must implement.
// Services depend on these so that storage, SMTP and locking can be replaced by
// mock implementations in unit tests.
package ports
