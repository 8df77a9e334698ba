// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package uiscript

import "strings"

// Encode renders a Root back into the text form consumed by the game.
// Output uses CRLF line endings and three spaces of indent per nesting
// level, with comments gathered at the top of the file.
func Encode(root *Root) []byte {
	var b strings.Builder

	for _, comment := range root.Comments {
		b.WriteString(comment)
		b.WriteString("\r\n")
	}

	for _, index := range root.Children {
		encodeElement(&b, root, index, 0)
	}

	return []byte(b.String())
}

func encodeElement(b *strings.Builder, root *Root, index, depth int) {
	indent := strings.Repeat("   ", depth)
	element := &root.Elements[index]

	b.WriteString(indent)
	b.WriteString("<LEGACY ")
	for _, attr := range element.Attrs {
		b.WriteString(encodeAttr(attr))
		b.WriteByte(' ')
	}
	b.WriteString(">\r\n")

	if len(element.Children) == 0 {
		return
	}

	b.WriteString(indent)
	b.WriteString("<CHILDREN>\r\n")
	for _, child := range element.Children {
		encodeElement(b, root, child, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("</CHILDREN>\r\n")
}

func encodeAttr(attr Attr) string {
	if attr.Value.Kind == KindFlag {
		return attr.Key
	}

	text := attr.Value.text()
	text = strings.ReplaceAll(text, newlinePlaceholder, "\r\n")

	if alwaysQuoted[attr.Key] || needsQuotes(text) {
		return attr.Key + `="` + text + `"`
	}
	return attr.Key + "=" + text
}

func needsQuotes(text string) bool {
	return strings.ContainsAny(text, " \r\n")
}
