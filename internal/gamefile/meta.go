// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package gamefile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Meta is the patch record stored in a .patched companion file. The
// format is a small INI document with one [patch] section, compatible
// with the files written by earlier releases of this tool.
type Meta struct {
	// Version of the tool that produced the patch.
	Version string
	// Scale factor that was applied.
	Scale float64
	// Uncompressed reports whether resources were stored raw.
	Uncompressed bool
	// UpscaleFilter names the resampling filter used on images.
	UpscaleFilter string
	// ChecksumBackup is the hex MD5 of the .bak file.
	ChecksumBackup string
	// ChecksumPatched is the hex MD5 of the patched file.
	ChecksumPatched string
}

// metaHeader is prepended to every .patched file.
const metaHeader = "# File patched by lah7's sims2-4k-ui-patch program.\n" +
	"# Keep this file (and the backup) so you can update the patches or revert without reinstalling the game.\n" +
	"# === Do not edit this file! ===\n\n"

// readMeta loads a .patched file. A missing file yields (nil, nil); a
// file that cannot be parsed is treated as absent so a re-patch can
// recover from a damaged record.
func readMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	meta := &Meta{}
	inSection := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, "["):
			inSection = line == "[patch]"
			continue
		case !inSection:
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "version":
			meta.Version = value
		case "scale":
			meta.Scale, _ = strconv.ParseFloat(value, 64)
		case "uncompressed":
			meta.Uncompressed, _ = strconv.ParseBool(value)
		case "upscale_filter":
			meta.UpscaleFilter = value
		case "md5_checksum_backup":
			meta.ChecksumBackup = value
		case "md5_checksum_patched":
			meta.ChecksumPatched = value
		}
	}

	if meta.Version == "" {
		return nil, nil
	}

	return meta, nil
}

// writeMeta serializes a .patched file.
func writeMeta(path string, meta Meta) error {
	var b strings.Builder
	b.WriteString(metaHeader)
	b.WriteString("[patch]\n")
	fmt.Fprintf(&b, "version = %s\n", meta.Version)
	fmt.Fprintf(&b, "scale = %s\n", strconv.FormatFloat(meta.Scale, 'f', -1, 64))
	fmt.Fprintf(&b, "uncompressed = %t\n", meta.Uncompressed)
	fmt.Fprintf(&b, "upscale_filter = %s\n", meta.UpscaleFilter)
	fmt.Fprintf(&b, "md5_checksum_backup = %s\n", meta.ChecksumBackup)
	fmt.Fprintf(&b, "md5_checksum_patched = %s\n", meta.ChecksumPatched)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}
