// Package server runs the transport servers of go-todo-keeper.
//
// It owns the HTTP and gRPC listeners, starts them together and shuts them
// down gracefully once the run context is cancelled.
package server
