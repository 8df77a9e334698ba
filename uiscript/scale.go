// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package uiscript

import "math"

// Scale returns a deep copy of root with every geometry attribute
// (element areas and gutter insets) multiplied by factor. Fractional
// results round half away from zero. All other attributes are kept
// verbatim, so Scale(Scale(r, 2), 0.5) reproduces r for even geometry.
func Scale(root *Root, factor float64) *Root {
	scaled := root.clone()

	for i := range scaled.Elements {
		element := &scaled.Elements[i]
		for j := range element.Attrs {
			attr := &element.Attrs[j]
			if attr.Value.Kind != KindRect || !geometryKeys[attr.Key] {
				continue
			}

			for k := range attr.Value.Ints {
				attr.Value.Ints[k] = scaleInt(attr.Value.Ints[k], factor)
			}
		}
	}

	return scaled
}

// scaleInt multiplies v by factor, rounding half away from zero.
func scaleInt(v int, factor float64) int {
	return int(math.Round(float64(v) * factor))
}
