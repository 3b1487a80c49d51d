// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides abstractions for input validation and
// enforcement of request rules across the application.
//
// Core concepts:
//   - Validator: generic interface to validate request structures.
//     Supports optional field-level scoping for targeted validation.
//   - ValidationError: field-level failure detail that transport layers
//     render as a 400 "Validation failed" response.
//
// This package decouples validation logic from transport layers and storage,
// enabling reusable and testable validation strategies.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally restricts
	// validation to the named struct fields (Go field names, e.g. "Title").
	Validate(context.Context, any, ...string) error
}
