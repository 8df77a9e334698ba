// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package uiscript

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Decode parses a UI script resource into a Root. Binary script variants
// fail with ErrNotText and should be passed through opaquely by callers.
func Decode(data []byte) (*Root, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, ErrNotText
	}

	root := &Root{}
	lines := strings.Split(string(data), "\n")

	// Parent stack: -1 stands for the root level, otherwise an arena index.
	stack := []int{-1}
	lastElement := -1

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		// An element is expected to close on the same line; anything else is
		// a multi-line quoted value, joined with a placeholder until it does.
		if strings.HasPrefix(line, "<") && !strings.HasSuffix(line, ">") {
			joined := []string{line}
			for !strings.HasSuffix(line, ">") {
				i++
				if i >= len(lines) {
					return nil, fmt.Errorf("%w: no closing tag for %q", ErrMalformedScript, joined[0])
				}

				line = strings.TrimSpace(lines[i])
				joined = append(joined, line)
			}
			line = strings.Join(joined, newlinePlaceholder)
		}

		switch {
		case strings.HasPrefix(line, "#") || !strings.HasPrefix(line, "<"):
			root.Comments = append(root.Comments, line)
		case line == "<CHILDREN>":
			if lastElement < 0 {
				return nil, fmt.Errorf("%w: <CHILDREN> before any element", ErrMalformedScript)
			}
			stack = append(stack, lastElement)
		case line == "</CHILDREN>":
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: unbalanced </CHILDREN>", ErrMalformedScript)
			}
			stack = stack[:len(stack)-1]
		case strings.HasPrefix(line, "<LEGACY"):
			element := parseElement(line)

			index := len(root.Elements)
			root.Elements = append(root.Elements, element)
			lastElement = index

			if parent := stack[len(stack)-1]; parent < 0 {
				root.Children = append(root.Children, index)
			} else {
				root.Elements[parent].Children = append(root.Elements[parent].Children, index)
			}
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: %d unclosed <CHILDREN> blocks", ErrMalformedScript, len(stack)-1)
	}

	return root, nil
}

// parseElement tokenizes one "<LEGACY ... >" line into attributes.
func parseElement(line string) Element {
	body := strings.TrimPrefix(line, "<LEGACY")
	body = strings.TrimSuffix(body, ">")

	var element Element
	pos := 0
	for pos < len(body) {
		for pos < len(body) && body[pos] == ' ' {
			pos++
		}

		start := pos
		for pos < len(body) && isKeyByte(body[pos]) {
			pos++
		}
		if pos == start {
			pos++ // not a key; skip stray byte
			continue
		}
		key := body[start:pos]

		if pos >= len(body) || body[pos] != '=' {
			element.Attrs = append(element.Attrs, Attr{Key: key, Value: Value{Kind: KindFlag}})
			continue
		}
		pos++

		var token string
		if pos < len(body) && body[pos] == '"' {
			pos++
			end := strings.IndexByte(body[pos:], '"')
			if end < 0 {
				end = len(body) - pos
			}
			token = body[pos : pos+end]
			pos += end + 1
		} else {
			end := strings.IndexByte(body[pos:], ' ')
			if end < 0 {
				end = len(body) - pos
			}
			token = body[pos : pos+end]
			pos += end
		}

		element.Attrs = append(element.Attrs, Attr{Key: key, Value: parseValue(key, token)})
	}

	return element
}

// isKeyByte reports whether b may appear in an attribute key.
func isKeyByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	default:
		return false
	}
}
