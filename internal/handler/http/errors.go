// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the HTTP layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("not authorized")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrInvalidForm is returned when a multipart body cannot be parsed.
	ErrInvalidForm = errors.New("invalid multipart form")

	// ErrInvalidEncoding is returned when a gzip request body is corrupt.
	ErrInvalidEncoding = errors.New("invalid gzip body")

	// ErrBodyTooLarge is returned when a body exceeds the configured cap.
	ErrBodyTooLarge = errors.New("request body is too large")

	// ErrTooManyRequests is returned by the rate-limit middleware.
	ErrTooManyRequests = errors.New("too many requests, please try again later")

	errRouteNotFound    = errors.New("Route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)
