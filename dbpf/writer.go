// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package dbpf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lah7/sims2-4k-ui-patch/qfs"
)

// dirRecord is one pending compression directory record.
type dirRecord struct {
	key              Key
	decompressedSize uint32
}

// indexRecord is one pending index table record.
type indexRecord struct {
	key    Key
	offset uint32
	size   uint32
}

// Write serializes entries into a DBPF archive: header, payload blocks in
// caller order, a regenerated compression directory when any entry is
// compressed, then the index table. Offsets and sizes are always recomputed;
// output is deterministic for identical inputs.
//
// Entries of TypeDir are dropped from the input: the directory is derived
// from the compression state of everything else.
func Write(entries []WriteEntry, opts WriteOptions) ([]byte, error) {
	header := opts.Header
	header.applyDefaults()

	if err := validateUniqueKeys(entries); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, headerSize))

	index := make([]indexRecord, 0, len(entries)+1)
	dir := make([]dirRecord, 0)

	for _, entry := range entries {
		if entry.Key.TypeID == TypeDir {
			continue
		}

		stored := entry.Data
		switch {
		case entry.Precompressed:
			dir = append(dir, dirRecord{key: entry.Key, decompressedSize: entry.DecompressedSize})
		case entry.Compress:
			if compressed, ok := compressPayload(entry.Data); ok {
				stored = compressed
				dir = append(dir, dirRecord{key: entry.Key, decompressedSize: uint32(len(entry.Data))})
			}
		}

		record, err := appendPayload(&buf, entry.Key, stored)
		if err != nil {
			return nil, err
		}

		index = append(index, record)
	}

	if len(dir) > 0 {
		dirKey := opts.DirKey
		dirKey.TypeID = TypeDir

		record, err := appendPayload(&buf, dirKey, encodeDirectory(header, dir))
		if err != nil {
			return nil, err
		}

		index = append(index, record)
	}

	header.IndexOffset = uint32(buf.Len())
	header.IndexEntryCount = uint32(len(index))

	for _, record := range index {
		writeKey(&buf, header, record.key)
		binary.Write(&buf, binary.LittleEndian, record.offset) //nolint:errcheck // bytes.Buffer cannot fail
		binary.Write(&buf, binary.LittleEndian, record.size)   //nolint:errcheck // bytes.Buffer cannot fail
	}

	header.IndexSize = uint32(buf.Len()) - header.IndexOffset

	out := buf.Bytes()
	encodeHeader(out[:headerSize], header)
	return out, nil
}

// appendPayload writes one payload block and returns its index record.
func appendPayload(buf *bytes.Buffer, key Key, stored []byte) (indexRecord, error) {
	offset := int64(buf.Len())
	if offset+int64(len(stored)) > math.MaxUint32 {
		return indexRecord{}, fmt.Errorf("%w: %s", ErrSizeOverflow, key)
	}

	buf.Write(stored)
	return indexRecord{
		key:    key,
		offset: uint32(offset),
		size:   uint32(len(stored)),
	}, nil
}

// compressPayload compresses data and reports whether the compressed form
// should be stored. Data too large for the QFS header, data that fails a
// verification round-trip, or data that does not shrink stays raw.
func compressPayload(data []byte) ([]byte, bool) {
	compressed, err := qfs.Compress(data)
	if err != nil {
		return nil, false
	}

	if len(compressed) > len(data) {
		return nil, false
	}

	plain, err := qfs.Decompress(compressed)
	if err != nil || !bytes.Equal(plain, data) {
		return nil, false
	}

	return compressed, true
}

// encodeDirectory serializes compression directory records.
func encodeDirectory(header Header, records []dirRecord) []byte {
	var buf bytes.Buffer
	buf.Grow(len(records) * header.dirRecordSize())

	for _, record := range records {
		writeKey(&buf, header, record.key)
		binary.Write(&buf, binary.LittleEndian, record.decompressedSize) //nolint:errcheck // bytes.Buffer cannot fail
	}

	return buf.Bytes()
}

// writeKey serializes a composite key, including the resource ID only for
// index version 7.2 and later.
func writeKey(buf *bytes.Buffer, header Header, key Key) {
	binary.Write(buf, binary.LittleEndian, key.TypeID)     //nolint:errcheck // bytes.Buffer cannot fail
	binary.Write(buf, binary.LittleEndian, key.GroupID)    //nolint:errcheck // bytes.Buffer cannot fail
	binary.Write(buf, binary.LittleEndian, key.InstanceID) //nolint:errcheck // bytes.Buffer cannot fail
	if header.hasResourceID() {
		binary.Write(buf, binary.LittleEndian, key.ResourceID) //nolint:errcheck // bytes.Buffer cannot fail
	}
}

// encodeHeader fills the fixed 96-byte header block in place.
func encodeHeader(block []byte, header Header) {
	copy(block[0:4], dbpfMagic)
	binary.LittleEndian.PutUint32(block[4:8], header.MajorVersion)
	binary.LittleEndian.PutUint32(block[8:12], header.MinorVersion)
	binary.LittleEndian.PutUint32(block[32:36], header.IndexVersionMajor)
	binary.LittleEndian.PutUint32(block[36:40], header.IndexEntryCount)
	binary.LittleEndian.PutUint32(block[40:44], header.IndexOffset)
	binary.LittleEndian.PutUint32(block[44:48], header.IndexSize)
	binary.LittleEndian.PutUint32(block[60:64], header.IndexVersionMinor)
}

// validateUniqueKeys rejects serialization plans with duplicate keys.
// A duplicate here is a programming error in the caller, not recoverable
// archive corruption.
func validateUniqueKeys(entries []WriteEntry) error {
	seen := make(map[Key]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Key.TypeID == TypeDir {
			continue
		}

		if _, exists := seen[entry.Key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, entry.Key)
		}

		seen[entry.Key] = struct{}{}
	}

	return nil
}
