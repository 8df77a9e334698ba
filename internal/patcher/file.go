// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package patcher

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/lah7/sims2-4k-ui-patch/fontstyle"
	"github.com/lah7/sims2-4k-ui-patch/internal/gamefile"
)

// PatchGameFile backs up and patches one game file in place. Files
// already patched at the current version are skipped; files patched by
// an older version are re-patched from their backup.
func PatchGameFile(gf *gamefile.GameFile, opts Options) error {
	if err := opts.applyDefaults(); err != nil {
		return err
	}

	if gf.Patched() && !gf.Outdated() {
		opts.Logger.Info("already patched", slog.String("path", gf.Path))
		return nil
	}

	if !gf.BackedUp {
		if err := gf.Backup(); err != nil {
			return err
		}
	}

	// Always patch from the backup so re-patching an outdated file
	// starts from the original bytes, not an earlier patch's output.
	data, err := os.ReadFile(gf.BackupPath())
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}

	var patched []byte
	switch gf.Kind {
	case gamefile.KindFontINI:
		patched, err = fontstyle.Scale(data, opts.Scale)
	default:
		patched, err = PatchPackage(data, gf.Kind, opts)
	}
	if err != nil {
		return fmt.Errorf("patch %s: %w", gf.Path, err)
	}

	if err := os.WriteFile(gf.Path, patched, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", gf.Path, err)
	}

	return gf.WriteMeta(gamefile.Meta{
		Scale:         opts.Scale,
		Uncompressed:  opts.Uncompressed,
		UpscaleFilter: opts.FilterName,
	})
}

// PatchAll patches every file, continuing past per-file failures and
// reporting them together.
func PatchAll(files []*gamefile.GameFile, opts Options) error {
	if err := opts.applyDefaults(); err != nil {
		return err
	}

	var result *multierror.Error
	for _, gf := range files {
		opts.Logger.Info("patching", slog.String("path", gf.Path))
		if err := PatchGameFile(gf, opts); err != nil {
			opts.Logger.Error("patch failed",
				slog.String("path", gf.Path),
				slog.Any("error", err))
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// RevertAll restores every backed-up file, continuing past failures.
func RevertAll(files []*gamefile.GameFile, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var result *multierror.Error
	for _, gf := range files {
		if !gf.BackedUp {
			continue
		}

		logger.Info("restoring", slog.String("path", gf.Path))
		if err := gf.Restore(); err != nil {
			logger.Error("restore failed",
				slog.String("path", gf.Path),
				slog.Any("error", err))
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
