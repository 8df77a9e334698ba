// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Package patcher drives the scale transformation of whole game files:
// it routes each package resource to its transformer, fans the work out
// across workers, and manages backups and patch metadata on disk.
package patcher

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/sync/errgroup"

	"github.com/lah7/sims2-4k-ui-patch/dbpf"
	"github.com/lah7/sims2-4k-ui-patch/graphics"
	"github.com/lah7/sims2-4k-ui-patch/internal/gamefile"
	"github.com/lah7/sims2-4k-ui-patch/uiscript"
)

// Options configure one patch run. The zero value is not usable; call
// applyDefaults or go through the exported entry points, which do.
type Options struct {
	// Scale is the multiplier applied to geometry, fonts, and images.
	Scale float64
	// Uncompressed stores every resource raw, trading file size for
	// patch speed.
	Uncompressed bool
	// Workers caps concurrent resource transforms. Zero means NumCPU.
	Workers int
	// FilterName selects the image resampling filter.
	FilterName string
	// Logger receives per-resource diagnostics. Nil discards them.
	Logger *slog.Logger
	// Progress, when set, is called after each resource is processed.
	Progress func(done, total int)

	filter transform.ResampleFilter
}

// DefaultScale doubles the UI density, sized for 4K displays.
const DefaultScale = 2.0

// ErrUnknownFilter means Options.FilterName is not a recognized
// resampling filter.
var ErrUnknownFilter = errors.New("unknown upscale filter")

func (o *Options) applyDefaults() error {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.FilterName == "" {
		o.FilterName = "nearest"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	filter, ok := graphics.FilterByName(o.FilterName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, o.FilterName)
	}
	o.filter = filter

	return nil
}

// PatchPackage rewrites a UI resource package, scaling every layout
// script and raster image it holds. Resources of other types, binary
// layout variants, and images in formats the tool cannot decode pass
// through byte-identical. The kind selects per-file policy: object
// catalogues only have their Targa graphics touched, stored raw.
func PatchPackage(data []byte, kind gamefile.Kind, opts Options) ([]byte, error) {
	if err := opts.applyDefaults(); err != nil {
		return nil, err
	}

	archive, err := dbpf.Open(data)
	if err != nil {
		return nil, err
	}

	entries := archive.Entries()
	plan := make([]dbpf.WriteEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Key.TypeID == dbpf.TypeDir {
			continue
		}
		plan = append(plan, dbpf.WriteEntry{Key: entry.Key})
	}

	var done atomic.Int64
	total := len(plan)

	var eg errgroup.Group
	eg.SetLimit(opts.Workers)
	for i := range plan {
		eg.Go(func() error {
			err := transformEntry(archive, &plan[i], kind, opts)

			n := int(done.Add(1))
			if opts.Progress != nil {
				opts.Progress(n, total)
			}

			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return dbpf.Write(plan, dbpf.WriteOptions{
		Header: archive.Header,
		DirKey: archive.DirKey(),
	})
}

// transformEntry fills in one write plan slot.
func transformEntry(archive *dbpf.Archive, slot *dbpf.WriteEntry, kind gamefile.Kind, opts Options) error {
	entry, ok := archive.Entry(slot.Key)
	if !ok {
		return fmt.Errorf("%w: %s", dbpf.ErrResourceNotFound, slot.Key)
	}

	switch slot.Key.TypeID {
	case dbpf.TypeUIData:
		if kind == gamefile.KindOverride {
			return passthrough(archive, slot, entry)
		}
		return transformUIScript(archive, slot, entry, opts)
	case dbpf.TypeImage:
		return transformImage(archive, slot, entry, kind, opts)
	default:
		// Accelerator tables and anything unrecognized carry no geometry.
		return passthrough(archive, slot, entry)
	}
}

func transformUIScript(archive *dbpf.Archive, slot *dbpf.WriteEntry, entry dbpf.Entry, opts Options) error {
	data, err := archive.ReadResource(slot.Key)
	if err != nil {
		return fmt.Errorf("read %s: %w", slot.Key, err)
	}

	root, err := uiscript.Decode(data)
	if errors.Is(err, uiscript.ErrNotText) {
		// Binary layout variant; leave it alone.
		slot.Data = data
		slot.Compress = compressPolicy(entry, opts)
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode layout %s: %w", slot.Key, err)
	}

	slot.Data = uiscript.Encode(uiscript.Scale(root, opts.Scale))
	slot.Compress = compressPolicy(entry, opts)

	return nil
}

func transformImage(archive *dbpf.Archive, slot *dbpf.WriteEntry, entry dbpf.Entry, kind gamefile.Kind, opts Options) error {
	data, err := archive.ReadResource(slot.Key)
	if err != nil {
		return fmt.Errorf("read %s: %w", slot.Key, err)
	}

	if kind == gamefile.KindOverride && graphics.Sniff(data) != graphics.FormatTGA {
		// Object catalogues hold JPEG Sim portraits the game cannot
		// reload once re-encoded. Only Targa graphics are scaled there.
		return passthrough(archive, slot, entry)
	}

	scaled, err := graphics.Scale(data, opts.Scale, opts.filter)
	switch {
	case errors.Is(err, graphics.ErrUnknownFormat), errors.Is(err, graphics.ErrUnsupportedImage):
		opts.Logger.Warn("skipping image with unsupported contents",
			slog.String("key", slot.Key.String()),
			slog.String("reason", err.Error()))
		slot.Data = data
		slot.Compress = compressPolicy(entry, opts)
		return nil
	case err != nil:
		return fmt.Errorf("scale image %s: %w", slot.Key, err)
	}

	slot.Data = scaled
	if kind == gamefile.KindOverride {
		// Compressed Targa entries can render invisible in game.
		slot.Compress = false
	} else {
		slot.Compress = compressPolicy(entry, opts)
	}

	return nil
}

// passthrough keeps a resource byte-identical. Compressed entries carry
// their original compressed bytes forward so the archive never grows
// from recompression.
func passthrough(archive *dbpf.Archive, slot *dbpf.WriteEntry, entry dbpf.Entry) error {
	raw, err := archive.RawResource(slot.Key)
	if err != nil {
		return fmt.Errorf("read %s: %w", slot.Key, err)
	}

	slot.Data = raw
	if entry.Compressed {
		slot.Precompressed = true
		slot.DecompressedSize = entry.DecompressedSize
	}

	return nil
}

// compressPolicy preserves the entry's original compression unless the
// run asked for raw storage.
func compressPolicy(entry dbpf.Entry, opts Options) bool {
	return entry.Compressed && !opts.Uncompressed
}

// Validate checks options without running a patch, for CLI flag errors.
func Validate(opts Options) error {
	if opts.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %v", opts.Scale)
	}

	return opts.applyDefaults()
}
