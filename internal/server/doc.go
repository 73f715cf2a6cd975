// Package server wires and runs the auth server's transports.
//
// It owns the HTTP and gRPC listeners, starts them together and shuts both
// down gracefully when the process receives a stop signal or the run
// context ends.
package server
