// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package dbpf

import "fmt"

// Internal binary layout sizes.
const (
	headerSize = 96 // fixed DBPF header block
)

// Resource types this module interprets. Everything else passes through
// as opaque bytes.
const (
	// TypeUIData is a UI script (layout tree) resource.
	TypeUIData uint32 = 0x00000000
	// TypeImage is a raster image resource (TGA/PNG/JPEG/BMP).
	TypeImage uint32 = 0x856DDBAC
	// TypeAccelDef is an accelerator key definition resource.
	TypeAccelDef uint32 = 0xA2E3D533
	// TypeDir is the directory of compressed files.
	TypeDir uint32 = 0xE86B1EEF
)

// Defaults for newly created packages, matching The Sims 2 base game.
const (
	DefaultMajorVersion      = 1
	DefaultMinorVersion      = 1
	DefaultIndexVersionMajor = 7
	DefaultIndexVersionMinor = 1
)

// Key is the composite identifier of one resource within an archive.
type Key struct {
	// TypeID identifies the resource kind.
	TypeID uint32 `json:"type_id"`
	// GroupID groups related resources.
	GroupID uint32 `json:"group_id"`
	// InstanceID distinguishes resources within a group.
	InstanceID uint32 `json:"instance_id"`
	// ResourceID is serialized only for index version 7.2 and later;
	// zero otherwise.
	ResourceID uint32 `json:"resource_id,omitempty"`
}

// String renders the key the way the original tooling reports it.
func (k Key) String() string {
	return fmt.Sprintf("type 0x%08X group 0x%08X instance 0x%08X resource 0x%08X",
		k.TypeID, k.GroupID, k.InstanceID, k.ResourceID)
}

// Header stores the fixed DBPF header fields this module reads and writes.
type Header struct {
	// MajorVersion and MinorVersion form the DBPF version, e.g. 1.1.
	MajorVersion uint32 `json:"major_version"`
	MinorVersion uint32 `json:"minor_version"`
	// IndexVersionMajor and IndexVersionMinor form the index version,
	// e.g. 7.1. Version 7.2 adds a resource ID to every index record.
	IndexVersionMajor uint32 `json:"index_version_major"`
	IndexVersionMinor uint32 `json:"index_version_minor"`
	// IndexEntryCount is the number of index records.
	IndexEntryCount uint32 `json:"index_entry_count"`
	// IndexOffset is the byte offset of the index table.
	IndexOffset uint32 `json:"index_offset"`
	// IndexSize is the byte length of the index table.
	IndexSize uint32 `json:"index_size"`
}

// hasResourceID reports whether index records carry the fourth key field.
func (h Header) hasResourceID() bool {
	return h.IndexVersionMajor > 7 || (h.IndexVersionMajor == 7 && h.IndexVersionMinor >= 2)
}

// indexRecordSize is the serialized size of one index record.
func (h Header) indexRecordSize() int {
	if h.hasResourceID() {
		return 24
	}

	return 20
}

// dirRecordSize is the serialized size of one compression directory record.
func (h Header) dirRecordSize() int {
	if h.hasResourceID() {
		return 20
	}

	return 16
}

// applyDefaults fills zero-valued header fields for new packages.
func (h *Header) applyDefaults() {
	if h.MajorVersion == 0 {
		h.MajorVersion = DefaultMajorVersion
		h.MinorVersion = DefaultMinorVersion
		h.IndexVersionMajor = DefaultIndexVersionMajor
		h.IndexVersionMinor = DefaultIndexVersionMinor
	}
}

// Entry describes a single parsed index record.
type Entry struct {
	// Key is the resource's composite identifier.
	Key Key `json:"key"`
	// Offset is the byte offset of the stored payload.
	Offset uint32 `json:"offset"`
	// Size is the stored payload size, compressed or not.
	Size uint32 `json:"size"`
	// DecompressedSize is the plain size recorded in the compression
	// directory; zero for resources stored raw.
	DecompressedSize uint32 `json:"decompressed_size,omitempty"`
	// Compressed reports whether the payload is a QFS stream.
	Compressed bool `json:"compressed,omitempty"`
}

// WriteEntry is one resource staged for serialization.
type WriteEntry struct {
	// Key identifies the resource. TypeDir entries are dropped: the writer
	// regenerates the compression directory itself.
	Key Key
	// Data is the payload. A plain resource body, or a raw QFS stream when
	// Precompressed is set.
	Data []byte
	// Compress requests QFS compression when storing Data. Data is kept raw
	// when compression does not make it smaller.
	Compress bool
	// Precompressed marks Data as an existing QFS stream, stored verbatim
	// and recorded in the compression directory.
	Precompressed bool
	// DecompressedSize is the plain payload size for Precompressed entries.
	DecompressedSize uint32
}

// WriteOptions configures archive serialization.
type WriteOptions struct {
	// Header provides version fields; zero values select defaults.
	// Count, offset, and size fields are always recomputed.
	Header Header
	// DirKey supplies group/instance/resource for the generated compression
	// directory entry. The type is forced to TypeDir.
	DirKey Key
}
