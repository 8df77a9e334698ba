// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package gamefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBackupAndRestore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ui.package")
	writeFixture(t, path, "original bytes")

	gf, err := New(path, KindPackage)
	require.NoError(t, err)
	assert.False(t, gf.BackedUp)
	assert.False(t, gf.Patched())

	require.NoError(t, gf.Backup())
	assert.True(t, gf.BackedUp)
	require.ErrorIs(t, gf.Backup(), ErrBackupExists)

	// Simulate patching, then record metadata.
	require.NoError(t, os.WriteFile(path, []byte("patched bytes"), 0o644))
	require.NoError(t, gf.WriteMeta(Meta{Scale: 2, UpscaleFilter: "nearest"}))

	reread, err := New(path, KindPackage)
	require.NoError(t, err)
	assert.True(t, reread.Patched())
	assert.False(t, reread.Outdated())
	assert.Equal(t, 2.0, reread.Meta.Scale)
	assert.NotEmpty(t, reread.Meta.ChecksumBackup)
	assert.NotEqual(t, reread.Meta.ChecksumBackup, reread.Meta.ChecksumPatched)

	require.NoError(t, reread.Restore())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original bytes", string(content))
	assert.NoFileExists(t, reread.BackupPath())
	assert.NoFileExists(t, reread.MetaPath())
}

func TestWriteMetaRequiresBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ui.package")
	writeFixture(t, path, "data")

	gf, err := New(path, KindPackage)
	require.NoError(t, err)
	require.ErrorIs(t, gf.WriteMeta(Meta{Scale: 2}), ErrNoBackup)
}

func TestRestoreRequiresBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ui.package")
	writeFixture(t, path, "data")

	gf, err := New(path, KindPackage)
	require.NoError(t, err)
	require.ErrorIs(t, gf.Restore(), ErrNoBackup)
}

func TestMetaRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ui.package.patched")
	meta := Meta{
		Version:         PatchVersion,
		Scale:           1.5,
		Uncompressed:    true,
		UpscaleFilter:   "lanczos",
		ChecksumBackup:  "aaa",
		ChecksumPatched: "bbb",
	}

	require.NoError(t, writeMeta(path, meta))

	got, err := readMeta(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta, *got)
}

func TestReadMetaMissingOrDamaged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := readMeta(filepath.Join(dir, "absent.patched"))
	require.NoError(t, err)
	assert.Nil(t, got)

	damaged := filepath.Join(dir, "damaged.patched")
	require.NoError(t, os.WriteFile(damaged, []byte("not an ini file\n"), 0o644))

	got, err = readMeta(damaged)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	patchable := []string{
		"The Sims 2/TSData/Res/UI/CaSIEUI.data",
		"The Sims 2/TSData/Res/Fonts/FontStyle.ini",
		"The Sims 2/TSData/Res/UI/ui.package",
		"The Sims 2/TSData/Res/Locale/French/UI/ui.package",
		"The Sims 2 University/TSData/Res/UI/ui.package",
		"The Sims 2/TSData/Res/Objects/objects.package",
	}
	ignored := []string{
		"The Sims 2 University/TSData/Res/Sims3D/Objects.package",
		"The Sims 2 University/TSData/Res/Overrides/existing.package",
		"The Sims 2/TSData/Res/Sims3D/random.package",
	}
	for _, rel := range append(append([]string{}, patchable...), ignored...) {
		writeFixture(t, filepath.Join(root, rel), "")
	}

	files, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, files, len(patchable))

	kinds := map[Kind]int{}
	for _, gf := range files {
		kinds[gf.Kind]++
	}
	assert.Equal(t, 4, kinds[KindPackage])
	assert.Equal(t, 1, kinds[KindFontINI])
	assert.Equal(t, 1, kinds[KindOverride])
}
