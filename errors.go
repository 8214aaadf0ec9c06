// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package numtrie

import "github.com/pkg/errors"

// ErrOutOfRange is the error attached to the debug log line written
// when Insert silently drops a value that doesn't fit the trie's
// configured bit width. Insert itself has no error return, and no
// function of this module returns this value.
var ErrOutOfRange = errors.New("numtrie: value out of indexable range")

// ErrInvalidPolygon is wrapped by package geo's ValidationError,
// letting callers errors.Is against it without importing geo's
// concrete error type.
var ErrInvalidPolygon = errors.New("numtrie: invalid polygon")
