// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package uiscript

import (
	"errors"
	"strings"
	"testing"
)

const sampleScript = "# Generated by UI editor\r\n" +
	"<LEGACY clsid=GZWinGen iid=IGZWinGen area=(10,10,605,432) winflag_visible=yes >\r\n" +
	"<CHILDREN>\r\n" +
	"   <LEGACY clsid=GZWinText area=(20,20,120,40) caption=\"OK\" >\r\n" +
	"   <LEGACY clsid=GZWinBMP area=(0,0,32,32) fillcolor=(255,0,128) >\r\n" +
	"</CHILDREN>\r\n"

func TestDecodeStructure(t *testing.T) {
	t.Parallel()

	root, err := Decode([]byte(sampleScript))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(root.Comments) != 1 || root.Comments[0] != "# Generated by UI editor" {
		t.Errorf("Comments = %q, want the generator comment", root.Comments)
	}
	if len(root.Elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(root.Elements))
	}
	if len(root.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1", len(root.Children))
	}

	top := &root.Elements[root.Children[0]]
	if len(top.Children) != 2 {
		t.Fatalf("len(top.Children) = %d, want 2", len(top.Children))
	}

	area, ok := top.Attr("area")
	if !ok || area.Kind != KindRect {
		t.Fatalf("area attr = %+v, ok = %v, want a rect", area, ok)
	}
	if area.Ints != [4]int{10, 10, 605, 432} {
		t.Errorf("area = %v, want [10 10 605 432]", area.Ints)
	}

	visible, ok := top.Attr("winflag_visible")
	if !ok || visible.Kind != KindBool || !visible.Bool {
		t.Errorf("winflag_visible = %+v, ok = %v, want bool true", visible, ok)
	}

	caption, ok := root.Elements[top.Children[0]].Attr("caption")
	if !ok || caption.Kind != KindString || caption.Str != "OK" {
		t.Errorf("caption = %+v, ok = %v, want string OK", caption, ok)
	}

	fill, ok := root.Elements[top.Children[1]].Attr("fillcolor")
	if !ok || fill.Kind != KindColor {
		t.Fatalf("fillcolor = %+v, ok = %v, want a color", fill, ok)
	}
	if fill.Ints[0] != 255 || fill.Ints[1] != 0 || fill.Ints[2] != 128 {
		t.Errorf("fillcolor = %v, want 255,0,128", fill.Ints)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	root, err := Decode([]byte(sampleScript))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	encoded := Encode(root)
	if string(encoded) != sampleScript {
		t.Errorf("Encode() = %q, want %q", encoded, sampleScript)
	}
}

func TestDecodeDuplicateAttrs(t *testing.T) {
	t.Parallel()

	script := "<LEGACY clsid=GZWinBtn wparam=\"first\" wparam=\"second\" >\r\n"
	root, err := Decode([]byte(script))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	attrs := root.Elements[0].Attrs
	if len(attrs) != 3 {
		t.Fatalf("len(Attrs) = %d, want 3", len(attrs))
	}
	if attrs[1].Value.Str != "first" || attrs[2].Value.Str != "second" {
		t.Errorf("duplicate wparam values = %q, %q", attrs[1].Value.Str, attrs[2].Value.Str)
	}

	if got := string(Encode(root)); got != script {
		t.Errorf("Encode() = %q, want %q", got, script)
	}
}

func TestDecodeQuotedValueWithEquals(t *testing.T) {
	t.Parallel()

	script := "<LEGACY clsid=GZWinBtn wparam=\"kind=push,id=0x42\" >\r\n"
	root, err := Decode([]byte(script))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wparam, ok := root.Elements[0].Attr("wparam")
	if !ok || wparam.Str != "kind=push,id=0x42" {
		t.Errorf("wparam = %+v, ok = %v", wparam, ok)
	}
}

func TestDecodeMultilineValue(t *testing.T) {
	t.Parallel()

	script := "<LEGACY clsid=GZWinText caption=\"line one\r\n" +
		"   line two\" area=(0,0,10,10) >\r\n"

	root, err := Decode([]byte(script))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	caption, ok := root.Elements[0].Attr("caption")
	if !ok {
		t.Fatal("caption attr missing")
	}
	want := `line one\r\nline two`
	if caption.Str != want {
		t.Errorf("caption = %q, want %q", caption.Str, want)
	}

	// Encode restores a real line break inside the quoted value.
	if got := string(Encode(root)); !strings.Contains(got, "caption=\"line one\r\nline two\"") {
		t.Errorf("Encode() = %q, want embedded CRLF in caption", got)
	}
}

func TestDecodeFlagAttr(t *testing.T) {
	t.Parallel()

	script := "<LEGACY clsid=GZWinGen ignoremouse >\r\n"
	root, err := Decode([]byte(script))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	flag, ok := root.Elements[0].Attr("ignoremouse")
	if !ok || flag.Kind != KindFlag {
		t.Errorf("ignoremouse = %+v, ok = %v, want a flag", flag, ok)
	}

	if got := string(Encode(root)); got != script {
		t.Errorf("Encode() = %q, want %q", got, script)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{"binary blob", "\x00\x01\x02UIv2", ErrNotText},
		{"invalid utf8", "<LEGACY a=\xff >", ErrNotText},
		{"unterminated element", "<LEGACY caption=\"never closes", ErrMalformedScript},
		{"unbalanced close", "</CHILDREN>", ErrMalformedScript},
		{"unclosed children", "<LEGACY clsid=A >\r\n<CHILDREN>\r\n", ErrMalformedScript},
		{"children before element", "<CHILDREN>\r\n", ErrMalformedScript},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Decode([]byte(tc.data)); !errors.Is(err, tc.want) {
				t.Errorf("Decode() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestScaleGeometry(t *testing.T) {
	t.Parallel()

	script := "<LEGACY clsid=GZWinGen area=(10,20,30,45) gutters=(5,5,5,5) fillcolor=(10,20,30) zindex=7 >\r\n"
	root, err := Decode([]byte(script))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	scaled := Scale(root, 2)
	area, _ := scaled.Elements[0].Attr("area")
	if area.Ints != [4]int{20, 40, 60, 90} {
		t.Errorf("scaled area = %v, want [20 40 60 90]", area.Ints)
	}

	gutters, _ := scaled.Elements[0].Attr("gutters")
	if gutters.Ints != [4]int{10, 10, 10, 10} {
		t.Errorf("scaled gutters = %v, want [10 10 10 10]", gutters.Ints)
	}

	// The two-value gutters shorthand scales and re-encodes as a pair.
	short := "<LEGACY clsid=GZWinGen gutters=(4,6) >\r\n"
	shortRoot, err := Decode([]byte(short))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := string(Encode(Scale(shortRoot, 2))); got != "<LEGACY clsid=GZWinGen gutters=(8,12) >\r\n" {
		t.Errorf("scaled shorthand gutters = %q", got)
	}

	// Non-geometry values are untouched even when they look numeric.
	fill, _ := scaled.Elements[0].Attr("fillcolor")
	if fill.Ints[0] != 10 || fill.Ints[1] != 20 || fill.Ints[2] != 30 {
		t.Errorf("fillcolor changed to %v", fill.Ints)
	}
	zindex, _ := scaled.Elements[0].Attr("zindex")
	if zindex.Ints[0] != 7 {
		t.Errorf("zindex changed to %d", zindex.Ints[0])
	}

	// Original is not mutated.
	orig, _ := root.Elements[0].Attr("area")
	if orig.Ints != [4]int{10, 20, 30, 45} {
		t.Errorf("original area mutated to %v", orig.Ints)
	}
}

func TestScaleRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v      int
		factor float64
		want   int
	}{
		{10, 1.5, 15},
		{5, 1.5, 8},  // 7.5 rounds away from zero
		{3, 0.5, 2},  // 1.5 rounds away from zero
		{-5, 1.5, -8},
		{0, 2, 0},
	}

	for _, tc := range tests {
		if got := scaleInt(tc.v, tc.factor); got != tc.want {
			t.Errorf("scaleInt(%d, %v) = %d, want %d", tc.v, tc.factor, got, tc.want)
		}
	}
}

func TestScaleInverse(t *testing.T) {
	t.Parallel()

	script := "<LEGACY clsid=GZWinGen area=(10,20,600,440) >\r\n" +
		"<CHILDREN>\r\n" +
		"   <LEGACY clsid=GZWinText area=(4,8,100,36) >\r\n" +
		"</CHILDREN>\r\n"

	root, err := Decode([]byte(script))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	restored := Scale(Scale(root, 2), 0.5)
	if got := string(Encode(restored)); got != script {
		t.Errorf("double/half scale = %q, want original %q", got, script)
	}
}

func TestAllElementsOrder(t *testing.T) {
	t.Parallel()

	root, err := Decode([]byte(sampleScript))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	indices := root.AllElements()
	if len(indices) != 3 {
		t.Fatalf("AllElements() = %v, want 3 entries", indices)
	}
	for i, idx := range indices {
		if idx != i {
			t.Errorf("AllElements()[%d] = %d, want document order", i, idx)
		}
	}
}
