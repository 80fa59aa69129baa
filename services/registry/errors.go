// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Client implementations when the registry
// reports that a module does not exist (HTTP 404). It is a lookup
// outcome, not a transient failure, and is never cached.
var ErrNotFound = errors.New("module not found in registry")

// TimeoutError indicates the registry call exceeded its deadline.
type TimeoutError struct {
	Source string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("registry request for %s timed out: %v", e.Source, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError indicates a network-level failure (DNS, connection
// refused, TLS) before any registry response arrived.
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("registry request for %s failed: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the registry answered with a payload
// the client could not interpret (bad JSON, missing version field, or an
// unexpected status code).
type MalformedResponseError struct {
	Source string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed registry response for %s: %s", e.Source, e.Reason)
}

// IsNotFound reports whether err means the module does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout reports whether err is a registry timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
