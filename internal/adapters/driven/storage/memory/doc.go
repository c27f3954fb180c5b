// Package memory provides in-memory implementations of the driven storage ports.
//
// The stores are safe for concurrent use and hold nothing across restarts.
// They back the service tests and the CLI's ephemeral mode, where the
// SQLite catalogue is not wanted.
package memory
