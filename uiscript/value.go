// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package uiscript

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the semantic type of an attribute value.
type Kind uint8

// Attribute value kinds. Keys without a recognized shape fall back to
// KindRaw so unknown fields survive decode/encode untouched.
const (
	// KindRaw is an uninterpreted value string.
	KindRaw Kind = iota
	// KindString is quoted text (captions, tooltips, window parameters).
	KindString
	// KindRect is a pixel rectangle "(a,b,c,d)".
	KindRect
	// KindColor is an RGB triple "(r,g,b)".
	KindColor
	// KindInt is a plain decimal integer.
	KindInt
	// KindBool is a yes/no value.
	KindBool
	// KindFlag is a bare key with no value at all.
	KindFlag
)

// Value is a tagged attribute value.
type Value struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind Kind
	// Ints holds IntCount fields for KindRect, 3 for KindColor, 1 for
	// KindInt.
	Ints [4]int
	// IntCount is the tuple arity for KindRect: gutters may be written
	// as either a 2- or 4-tuple.
	IntCount int
	// Str holds text for KindRaw and KindString.
	Str string
	// Bool holds the state for KindBool.
	Bool bool
}

// Rect builds a rectangle value.
func Rect(a, b, c, d int) Value {
	return Value{Kind: KindRect, Ints: [4]int{a, b, c, d}, IntCount: 4}
}

// String builds an always-quoted text value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Raw builds an uninterpreted value.
func Raw(s string) Value {
	return Value{Kind: KindRaw, Str: s}
}

// parseValue classifies a raw attribute token by key and shape.
func parseValue(key, token string) Value {
	switch {
	case alwaysQuoted[key]:
		return Value{Kind: KindString, Str: token}
	case geometryKeys[key]:
		// Gutters appear as both (l,t,r,b) and the shorthand (h,v).
		for _, n := range []int{4, 2} {
			if ints, ok := parseIntTuple(token, n); ok {
				return Value{Kind: KindRect, Ints: ints, IntCount: n}
			}
		}
	case strings.HasSuffix(key, "color"):
		if ints, ok := parseIntTuple(token, 3); ok {
			return Value{Kind: KindColor, Ints: ints, IntCount: 3}
		}
	case token == "yes":
		return Value{Kind: KindBool, Bool: true}
	case token == "no":
		return Value{Kind: KindBool, Bool: false}
	default:
		if n, ok := parsePlainInt(token); ok {
			return Value{Kind: KindInt, Ints: [4]int{n}}
		}
	}

	return Value{Kind: KindRaw, Str: token}
}

// parseIntTuple parses "(a,b,...)" with exactly n decimal fields.
func parseIntTuple(token string, n int) ([4]int, bool) {
	var out [4]int
	if len(token) < 2 || token[0] != '(' || token[len(token)-1] != ')' {
		return out, false
	}

	parts := strings.Split(token[1:len(token)-1], ",")
	if len(parts) != n {
		return out, false
	}

	for i, part := range parts {
		v, ok := parsePlainInt(part)
		if !ok {
			return out, false
		}

		out[i] = v
	}

	return out, true
}

// parsePlainInt accepts only integers whose decimal rendering reproduces
// the input exactly, so re-encoding stays lossless.
func parsePlainInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(v) != s {
		return 0, false
	}

	return v, true
}

// text renders the value body without quoting.
func (v Value) text() string {
	switch v.Kind {
	case KindRect:
		if v.IntCount == 2 {
			return fmt.Sprintf("(%d,%d)", v.Ints[0], v.Ints[1])
		}
		return fmt.Sprintf("(%d,%d,%d,%d)", v.Ints[0], v.Ints[1], v.Ints[2], v.Ints[3])
	case KindColor:
		return fmt.Sprintf("(%d,%d,%d)", v.Ints[0], v.Ints[1], v.Ints[2])
	case KindInt:
		return strconv.Itoa(v.Ints[0])
	case KindBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	default:
		return v.Str
	}
}
