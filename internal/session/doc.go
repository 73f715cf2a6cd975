// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the client's authentication state.
//
// [Machine] is an explicit state machine over [Status]. It owns the token
// pair: it persists it through a [store.TokenStore] and keeps the outbound
// [adapter.Authorizer] in step with it. Every operation blocks with a
// context and is meant to run off the UI goroutine; observers read
// [Session] snapshots through [Machine.Subscribe].
//
// A logout always wins: it invalidates every operation still in flight, so
// a refresh or login that completes afterwards is discarded.
package session
