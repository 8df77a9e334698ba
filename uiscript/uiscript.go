// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

// Package uiscript decodes, scales, and re-encodes Maxis UI scripts: the
// XML-like text resources describing dialog geometry and element trees in
// The Sims 2 user interface packages.
//
// A script is a sequence of "<LEGACY ...>" lines whose nesting is expressed
// by "<CHILDREN>"/"</CHILDREN>" blocks. Elements live in a flat arena on the
// Root and reference their children by arena index, so re-attaching subtrees
// between passes never creates ownership cycles.
package uiscript

import "errors"

// Sentinel errors for UI script operations. Use errors.Is in callers.
var (
	// ErrNotText means the resource is a binary UI script variant this
	// package does not interpret; callers pass those through untouched.
	ErrNotText = errors.New("UI script is not valid UTF-8 text")
	// ErrMalformedScript means the element/children structure is unbalanced
	// or a multi-line value never terminates.
	ErrMalformedScript = errors.New("malformed UI script")
)

// newlinePlaceholder stands in for CR+LF inside multi-line attribute values
// while a script is decoded. Encode converts it back to a real line break.
const newlinePlaceholder = `\r\n`

// geometryKeys are the attributes holding pixel rectangles that scaling
// rewrites. Everything else is visual or behavioral and stays untouched.
var geometryKeys = map[string]bool{
	"area":    true,
	"gutters": true,
}

// alwaysQuoted are attribute keys whose values are quoted even without
// embedded whitespace, matching the game's own script emitter.
var alwaysQuoted = map[string]bool{
	"caption":   true,
	"tiptext":   true,
	"wparam":    true,
	"initvalue": true,
}

// Root is a decoded UI script. Elements holds every element in the script
// as a flat arena; Children indexes the top-level elements within it.
type Root struct {
	// Comments are non-element lines, preserved in order of appearance.
	Comments []string
	// Elements is the arena of all elements in document order.
	Elements []Element
	// Children indexes top-level elements in the arena.
	Children []int
}

// Element is one "<LEGACY>" element.
type Element struct {
	// Attrs are the element's attributes in source order. Duplicate keys
	// are legal and preserved.
	Attrs []Attr
	// Children indexes nested elements in the Root arena.
	Children []int
}

// Attr is a single key/value attribute.
type Attr struct {
	Key   string
	Value Value
}

// Attr returns the first attribute value for key.
func (e *Element) Attr(key string) (Value, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			return e.Attrs[i].Value, true
		}
	}

	return Value{}, false
}

// SetAttr replaces the first attribute value for key, or appends one.
func (e *Element) SetAttr(key string, value Value) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return
		}
	}

	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
}

// AllElements returns arena indices of every element in document order.
func (r *Root) AllElements() []int {
	out := make([]int, 0, len(r.Elements))
	var walk func(indices []int)
	walk = func(indices []int) {
		for _, i := range indices {
			out = append(out, i)
			walk(r.Elements[i].Children)
		}
	}
	walk(r.Children)

	return out
}

// clone returns a deep copy sharing no slices with r.
func (r *Root) clone() *Root {
	out := &Root{
		Comments: append([]string(nil), r.Comments...),
		Elements: make([]Element, len(r.Elements)),
		Children: append([]int(nil), r.Children...),
	}

	for i := range r.Elements {
		out.Elements[i] = Element{
			Attrs:    append([]Attr(nil), r.Elements[i].Attrs...),
			Children: append([]int(nil), r.Elements[i].Children...),
		}
	}

	return out
}
