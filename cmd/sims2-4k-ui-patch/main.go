// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Command sims2-4k-ui-patch upscales The Sims 2 user interface for high
// density displays by patching the game's UI resource packages in place.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/lah7/sims2-4k-ui-patch/dbpf"
	"github.com/lah7/sims2-4k-ui-patch/graphics"
	"github.com/lah7/sims2-4k-ui-patch/internal/gamefile"
	"github.com/lah7/sims2-4k-ui-patch/internal/patcher"
)

func main() {
	app := &cli.App{
		Name:  "sims2-4k-ui-patch",
		Usage: "Upscale The Sims 2 user interface for high density displays",
		Commands: []*cli.Command{
			{
				Name:      "patch",
				Usage:     "Back up and patch all UI files under a game directory",
				ArgsUsage: "GAME_DIR",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "scale",
						Usage: "geometry and image multiplier",
						Value: patcher.DefaultScale,
					},
					&cli.BoolFlag{
						Name:  "uncompressed",
						Usage: "store patched resources without compression",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "concurrent resource transforms (0 = all CPUs)",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "image filter: " + strings.Join(graphics.FilterNames(), ", "),
						Value: "nearest",
					},
				},
				Action: runPatch,
			},
			{
				Name:      "revert",
				Usage:     "Restore all patched files from their backups",
				ArgsUsage: "GAME_DIR",
				Action:    runRevert,
			},
			{
				Name:      "status",
				Usage:     "Report which files under a game directory are patched",
				ArgsUsage: "GAME_DIR",
				Action:    runStatus,
			},
			{
				Name:      "list",
				Usage:     "List the resources inside a package file",
				ArgsUsage: "PACKAGE",
				Action:    runList,
			},
			{
				Name:      "extract",
				Usage:     "Extract one resource from a package file",
				ArgsUsage: "PACKAGE TYPE_ID GROUP_ID INSTANCE_ID OUTPUT",
				Action:    runExtract,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func discoverArg(c *cli.Context) ([]*gamefile.GameFile, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected one game directory argument")
	}

	files, err := gamefile.Discover(c.Args().First())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no patchable files found under %s", c.Args().First())
	}

	return files, nil
}

func runPatch(c *cli.Context) error {
	files, err := discoverArg(c)
	if err != nil {
		return err
	}

	opts := patcher.Options{
		Scale:        c.Float64("scale"),
		Uncompressed: c.Bool("uncompressed"),
		Workers:      c.Int("workers"),
		FilterName:   c.String("filter"),
		Logger:       newLogger(),
	}
	if err := patcher.Validate(opts); err != nil {
		return err
	}

	return patcher.PatchAll(files, opts)
}

func runRevert(c *cli.Context) error {
	files, err := discoverArg(c)
	if err != nil {
		return err
	}

	return patcher.RevertAll(files, newLogger())
}

func runStatus(c *cli.Context) error {
	files, err := discoverArg(c)
	if err != nil {
		return err
	}

	for _, gf := range files {
		state := "original"
		switch {
		case gf.Outdated():
			state = "patched (outdated)"
		case gf.Patched():
			state = fmt.Sprintf("patched (scale %vx)", gf.Meta.Scale)
		case gf.BackedUp:
			state = "backup present, metadata missing"
		}
		fmt.Printf("%-40s %s\n", state, gf.Path)
	}

	return nil
}

func runList(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one package file argument")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	archive, err := dbpf.Open(data)
	if err != nil {
		return err
	}

	for _, entry := range archive.Entries() {
		stored := "raw"
		if entry.Compressed {
			stored = fmt.Sprintf("compressed (%d bytes)", entry.DecompressedSize)
		}
		fmt.Printf("%-28s %s  %d bytes %s\n",
			dbpf.TypeName(entry.Key.TypeID), entry.Key, entry.Size, stored)
	}

	return nil
}

func runExtract(c *cli.Context) error {
	if c.NArg() != 5 {
		return fmt.Errorf("expected PACKAGE TYPE_ID GROUP_ID INSTANCE_ID OUTPUT")
	}

	data, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	archive, err := dbpf.Open(data)
	if err != nil {
		return err
	}

	var key dbpf.Key
	if key.TypeID, err = parseID(c.Args().Get(1)); err != nil {
		return err
	}
	if key.GroupID, err = parseID(c.Args().Get(2)); err != nil {
		return err
	}
	if key.InstanceID, err = parseID(c.Args().Get(3)); err != nil {
		return err
	}

	resource, err := archive.ReadResource(key)
	if err != nil {
		return err
	}

	return os.WriteFile(c.Args().Get(4), resource, 0o644)
}

// parseID accepts a decimal or 0x-prefixed hex resource identifier.
func parseID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", s, err)
	}

	return uint32(v), nil
}
