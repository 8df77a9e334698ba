// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package dbpf

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/lah7/sims2-4k-ui-patch/qfs"
)

// dbpfMagic is the four-byte archive signature.
var dbpfMagic = []byte("DBPF")

// Archive is a parsed in-memory DBPF package. Only header and index
// metadata are materialized at open time; payloads are sliced and
// decompressed on demand.
type Archive struct {
	// Header stores the parsed fixed header fields.
	Header Header

	data    []byte
	entries []Entry
	byKey   map[Key]int
	dirKey  Key
	hasDir  bool
}

// Open parses data as a DBPF archive and validates header, index, and
// compression directory against the buffer bounds. It does not decompress
// any payload.
func Open(data []byte) (*Archive, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrInvalidHeader, len(data), headerSize)
	}

	if !bytes.Equal(data[0:4], dbpfMagic) {
		return nil, fmt.Errorf("%w: magic mismatch", ErrInvalidHeader)
	}

	a := &Archive{
		data: data,
		Header: Header{
			MajorVersion:      binary.LittleEndian.Uint32(data[4:8]),
			MinorVersion:      binary.LittleEndian.Uint32(data[8:12]),
			IndexVersionMajor: binary.LittleEndian.Uint32(data[32:36]),
			IndexEntryCount:   binary.LittleEndian.Uint32(data[36:40]),
			IndexOffset:       binary.LittleEndian.Uint32(data[40:44]),
			IndexSize:         binary.LittleEndian.Uint32(data[44:48]),
			IndexVersionMinor: binary.LittleEndian.Uint32(data[60:64]),
		},
	}

	if err := a.parseIndex(); err != nil {
		return nil, err
	}

	if err := a.parseDirectory(); err != nil {
		return nil, err
	}

	return a, nil
}

// parseIndex validates index bounds and materializes entry metadata.
func (a *Archive) parseIndex() error {
	h := a.Header
	recordSize := h.indexRecordSize()

	end := int64(h.IndexOffset) + int64(h.IndexSize)
	if end > int64(len(a.data)) {
		return fmt.Errorf("%w: index ends at %d, archive is %d bytes", ErrTruncatedIndex, end, len(a.data))
	}

	if int64(h.IndexEntryCount)*int64(recordSize) > int64(h.IndexSize) {
		return fmt.Errorf("%w: %d records do not fit in %d index bytes", ErrTruncatedIndex, h.IndexEntryCount, h.IndexSize)
	}

	a.entries = make([]Entry, 0, h.IndexEntryCount)
	a.byKey = make(map[Key]int, h.IndexEntryCount)

	pos := int(h.IndexOffset)
	for i := uint32(0); i < h.IndexEntryCount; i++ {
		record := a.data[pos : pos+recordSize]
		pos += recordSize

		var entry Entry
		entry.Key.TypeID = binary.LittleEndian.Uint32(record[0:4])
		entry.Key.GroupID = binary.LittleEndian.Uint32(record[4:8])
		entry.Key.InstanceID = binary.LittleEndian.Uint32(record[8:12])
		record = record[12:]
		if h.hasResourceID() {
			entry.Key.ResourceID = binary.LittleEndian.Uint32(record[0:4])
			record = record[4:]
		}
		entry.Offset = binary.LittleEndian.Uint32(record[0:4])
		entry.Size = binary.LittleEndian.Uint32(record[4:8])

		if int64(entry.Offset)+int64(entry.Size) > int64(len(a.data)) {
			return fmt.Errorf("%w: %s", ErrTruncatedPayload, entry.Key)
		}

		if _, exists := a.byKey[entry.Key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, entry.Key)
		}

		a.byKey[entry.Key] = len(a.entries)
		a.entries = append(a.entries, entry)
	}

	return nil
}

// parseDirectory locates the DIR resource and flags compressed entries.
func (a *Archive) parseDirectory() error {
	dirIndex := -1
	for i := range a.entries {
		if a.entries[i].Key.TypeID == TypeDir {
			dirIndex = i
			break
		}
	}
	if dirIndex < 0 {
		return nil
	}

	dir := a.entries[dirIndex]
	a.dirKey = dir.Key
	a.hasDir = true

	recordSize := a.Header.dirRecordSize()
	if int(dir.Size)%recordSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the %d byte record", ErrInvalidDirectory, dir.Size, recordSize)
	}

	body := a.data[dir.Offset : int(dir.Offset)+int(dir.Size)]
	for pos := 0; pos < len(body); pos += recordSize {
		record := body[pos : pos+recordSize]

		var key Key
		key.TypeID = binary.LittleEndian.Uint32(record[0:4])
		key.GroupID = binary.LittleEndian.Uint32(record[4:8])
		key.InstanceID = binary.LittleEndian.Uint32(record[8:12])
		record = record[12:]
		if a.Header.hasResourceID() {
			key.ResourceID = binary.LittleEndian.Uint32(record[0:4])
			record = record[4:]
		}

		i, ok := a.byKey[key]
		if !ok {
			return fmt.Errorf("%w: no index record for %s", ErrInvalidDirectory, key)
		}

		a.entries[i].Compressed = true
		a.entries[i].DecompressedSize = binary.LittleEndian.Uint32(record[0:4])
	}

	return nil
}

// Entries returns a copy of parsed index entries in archive order.
func (a *Archive) Entries() []Entry {
	if a == nil {
		return nil
	}

	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)
	return entries
}

// Keys returns the composite keys of all resources in archive order.
func (a *Archive) Keys() []Key {
	if a == nil {
		return nil
	}

	keys := make([]Key, len(a.entries))
	for i := range a.entries {
		keys[i] = a.entries[i].Key
	}

	return keys
}

// Entry resolves index metadata for one key.
func (a *Archive) Entry(key Key) (Entry, bool) {
	if a == nil {
		return Entry{}, false
	}

	i, ok := a.byKey[key]
	if !ok {
		return Entry{}, false
	}

	return a.entries[i], true
}

// DirKey returns the composite key of the compression directory resource,
// or the zero key when the archive has none.
func (a *Archive) DirKey() Key {
	if a == nil || !a.hasDir {
		return Key{}
	}

	return a.dirKey
}

// RawResource returns the stored bytes of one resource exactly as they
// appear in the archive, compressed or not.
func (a *Archive) RawResource(key Key) ([]byte, error) {
	i, ok := a.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, key)
	}

	entry := a.entries[i]
	raw := make([]byte, entry.Size)
	copy(raw, a.data[entry.Offset:int(entry.Offset)+int(entry.Size)])
	return raw, nil
}

// ReadResource returns the plain payload of one resource, decompressing it
// when the compression directory marks it as a QFS stream. The decompressed
// length is validated against the directory record.
func (a *Archive) ReadResource(key Key) ([]byte, error) {
	i, ok := a.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, key)
	}

	entry := a.entries[i]
	stored := a.data[entry.Offset : int(entry.Offset)+int(entry.Size)]
	if !entry.Compressed {
		raw := make([]byte, len(stored))
		copy(raw, stored)
		return raw, nil
	}

	plain, err := qfs.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", key, err)
	}

	if len(plain) != int(entry.DecompressedSize) {
		return nil, fmt.Errorf("%w: %s decompressed to %d bytes, directory records %d",
			qfs.ErrCorruptStream, key, len(plain), entry.DecompressedSize)
	}

	return plain, nil
}

// WriteEntries builds a passthrough serialization plan for every resource,
// preserving stored bytes and compression choices. The compression directory
// itself is excluded: Write regenerates it.
func (a *Archive) WriteEntries() ([]WriteEntry, error) {
	if a == nil {
		return nil, nil
	}

	out := make([]WriteEntry, 0, len(a.entries))
	for _, entry := range a.entries {
		if entry.Key.TypeID == TypeDir {
			continue
		}

		raw, err := a.RawResource(entry.Key)
		if err != nil {
			return nil, err
		}

		out = append(out, WriteEntry{
			Key:              entry.Key,
			Data:             raw,
			Precompressed:    entry.Compressed,
			DecompressedSize: entry.DecompressedSize,
		})
	}

	return out, nil
}
