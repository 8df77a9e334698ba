// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

/*
Package dbpf reads and writes DBPF archives ("packages") as used by
The Sims 2 for its user interface resources. It supports DBPF 1.1 with
index versions 7.0, 7.1, and 7.2.

An archive is a typed, indexed container: a fixed 96-byte header, payload
blocks, and an index table of (type, group, instance[, resource]) keys with
offsets and sizes. Compressed payloads are QFS streams, listed with their
decompressed sizes in a directory resource (TypeDir) that is itself a
regular entry.

# Reading

Open an archive from memory and read resources on demand:

	a, err := dbpf.Open(data)
	if err != nil {
	    return err
	}
	for _, key := range a.Keys() {
	    plain, err := a.ReadResource(key)
	    if err != nil {
	        return err
	    }
	    // use plain
	}

Payloads stay lazy: Open materializes header and index metadata only, and
ReadResource decompresses one resource per call.

# Writing

Write serializes a full archive from staged entries:

	entries, _ := a.WriteEntries() // passthrough plan
	entries[3].Data = patched
	entries[3].Precompressed = false
	entries[3].Compress = true
	out, err := dbpf.Write(entries, dbpf.WriteOptions{
	    Header: a.Header,
	    DirKey: a.DirKey(),
	})

Writing an unmodified passthrough plan preserves stored payload bytes,
entry order, and compression choices, and recomputes all offsets
deterministically: an archive already in canonical layout round-trips
byte-for-byte.
*/
package dbpf
