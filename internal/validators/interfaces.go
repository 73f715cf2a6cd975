// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks credential and profile input before it reaches
// the auth services. Rejections are sentinels of this package whose text is
// safe to return to the API caller.
package validators

import "context"

// Validator checks a request model. When fields are given only those fields
// are checked, which lets a partial profile update skip the rest.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
