// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package gamefile

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
)

// patchablePatterns select the files this tool knows how to patch.
// Matching is case sensitive: the object catalogue is only patched in
// the Res/Objects folder, not the similarly named Sims3D copies.
var patchablePatterns = []string{
	"**/ui.package",
	"**/CaSIEUI.data",
	"**/FontStyle.ini",
	"**/Res/Objects/objects.package",
}

// Discover walks a game installation directory (covering the base game
// and every expansion beneath it) and returns the patchable files it
// finds, in deterministic walk order.
func Discover(root string) ([]*GameFile, error) {
	rules := make([]pathrules.Rule, 0, len(patchablePatterns))
	for _, pattern := range patchablePatterns {
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{})
	if err != nil {
		return nil, fmt.Errorf("compile discovery rules: %w", err)
	}

	var files []*GameFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if !matcher.Included(filepath.ToSlash(rel), false) {
			return nil
		}

		gf, err := New(path, kindForName(d.Name()))
		if err != nil {
			return err
		}
		files = append(files, gf)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return files, nil
}

// kindForName maps a file name to its patch strategy.
func kindForName(name string) Kind {
	switch {
	case strings.EqualFold(name, "FontStyle.ini"):
		return KindFontINI
	case name == "objects.package":
		return KindOverride
	default:
		return KindPackage
	}
}
