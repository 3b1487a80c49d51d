// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the state layer of the go-todo-keeper CLI.
//
// [SessionStore] owns the authenticated user and the token pair, and
// [TodoStore] owns the cached todo lists. Both are explicit state objects
// guarded by a mutex, talk to the server through [adapter.ServerAdapter] and
// persist a JSON snapshot through [store.StateRepository] so that a session
// survives between CLI invocations.
//
// Operations report failure through a false return and the Error field of
// the store snapshot, which always holds a message fit for display.
// [App] wires the stores to their dependencies.
package client
