// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Package gamefile tracks the on-disk state of patchable game files.
// Next to each patched file the tool keeps two companions:
//
//	*.bak     — the original file, required to revert or re-patch
//	*.patched — patch metadata (tool version, settings, checksums)
package gamefile

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// PatchVersion is the metadata version stamped into .patched files.
// Files stamped with an older version are reported as outdated.
const PatchVersion = "1.0"

// Sentinel errors for game file state transitions.
var (
	// ErrBackupExists means Backup would overwrite an earlier backup.
	ErrBackupExists = errors.New("backup already exists")
	// ErrNoBackup means the operation needs a .bak file that is missing.
	ErrNoBackup = errors.New("backup file missing")
	// ErrNotPatched means metadata cannot be written for an unpatched file.
	ErrNotPatched = errors.New("file is not patched")
)

// Kind selects the patch strategy for a game file.
type Kind uint8

const (
	// KindPackage is a UI resource package patched in place.
	KindPackage Kind = iota + 1
	// KindOverride is an object catalogue package where only Targa
	// graphics change and results stay uncompressed.
	KindOverride
	// KindFontINI is the font style table in the game's Fonts folder.
	KindFontINI
)

// GameFile describes one patchable file and its companion state.
type GameFile struct {
	// Path is the live game file.
	Path string
	// Kind selects how the patcher treats this file.
	Kind Kind
	// Meta is the last patch metadata read from disk, nil when unpatched.
	Meta *Meta
	// BackedUp reports whether a .bak companion exists.
	BackedUp bool
}

// New inspects path and its companion files.
func New(path string, kind Kind) (*GameFile, error) {
	gf := &GameFile{Path: path, Kind: kind}

	if _, err := os.Stat(gf.BackupPath()); err == nil {
		gf.BackedUp = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	meta, err := readMeta(gf.MetaPath())
	if err != nil {
		return nil, err
	}
	gf.Meta = meta

	return gf, nil
}

// BackupPath returns the .bak companion path.
func (g *GameFile) BackupPath() string {
	return g.Path + ".bak"
}

// MetaPath returns the .patched companion path.
func (g *GameFile) MetaPath() string {
	return g.Path + ".patched"
}

// Patched reports whether a valid .patched companion was found.
func (g *GameFile) Patched() bool {
	return g.Meta != nil
}

// Outdated reports whether the file was patched by an older tool version.
func (g *GameFile) Outdated() bool {
	return g.Meta != nil && g.Meta.Version != PatchVersion
}

// Backup copies the live file to its .bak companion. Fails if a backup
// already exists so the pristine original is never overwritten.
func (g *GameFile) Backup() error {
	if g.BackedUp {
		return fmt.Errorf("%w: %s", ErrBackupExists, g.BackupPath())
	}

	if err := copyFile(g.Path, g.BackupPath()); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	g.BackedUp = true

	return nil
}

// Restore moves the .bak companion back over the live file and removes
// the patch metadata.
func (g *GameFile) Restore() error {
	if !g.BackedUp {
		return fmt.Errorf("%w: %s", ErrNoBackup, g.BackupPath())
	}

	if err := os.Remove(g.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove patched file: %w", err)
	}
	if err := os.Rename(g.BackupPath(), g.Path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	if err := os.Remove(g.MetaPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove metadata: %w", err)
	}

	g.BackedUp = false
	g.Meta = nil

	return nil
}

// WriteMeta records patch settings and checksums of both the patched
// file and its backup. The backup must exist first.
func (g *GameFile) WriteMeta(meta Meta) error {
	if !g.BackedUp {
		return fmt.Errorf("%w: %s", ErrNoBackup, g.BackupPath())
	}

	var err error
	meta.Version = PatchVersion
	if meta.ChecksumPatched, err = fileChecksum(g.Path); err != nil {
		return err
	}
	if meta.ChecksumBackup, err = fileChecksum(g.BackupPath()); err != nil {
		return err
	}

	if err := writeMeta(g.MetaPath(), meta); err != nil {
		return err
	}
	g.Meta = &meta

	return nil
}

// fileChecksum returns the hex MD5 digest of a file. MD5 matches the
// checksums shipped in existing .patched files and is not used for
// anything security sensitive.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for checksum: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := md5.New() //nolint:gosec // legacy metadata format, not security
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, preserving the source's permissions.
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
