// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package dbpf

import "errors"

// Sentinel errors for DBPF operations. Use errors.Is in callers.
var (
	// ErrInvalidHeader means the DBPF magic is missing or header fields are
	// internally inconsistent.
	ErrInvalidHeader = errors.New("invalid DBPF file: missing or bad header")
	// ErrTruncatedIndex means the declared index table runs past the end of
	// the archive.
	ErrTruncatedIndex = errors.New("index table exceeds archive bounds")
	// ErrTruncatedPayload means an index record points past the end of the
	// archive.
	ErrTruncatedPayload = errors.New("resource payload exceeds archive bounds")
	// ErrInvalidDirectory means the compression directory is malformed or
	// references a resource absent from the index.
	ErrInvalidDirectory = errors.New("invalid compression directory")
	// ErrResourceNotFound means no index record matches the requested key.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrDuplicateKey means two entries share one composite key.
	ErrDuplicateKey = errors.New("duplicate resource key")
	// ErrSizeOverflow means serialized output exceeds the uint32 offset range.
	ErrSizeOverflow = errors.New("archive exceeds 4 GiB offset limit")
)
