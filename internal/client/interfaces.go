// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}

// Session is the part of the session machine the application drives
// directly. Everything else goes through the UI.
type Session interface {
	Start(ctx context.Context) error
}

// UI is the interactive front end. Run blocks until the user leaves.
type UI interface {
	Run(ctx context.Context) error
}
