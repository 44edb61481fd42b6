// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the first JSON value (object or array) out of LLM
// output. Models are instructed to respond with only JSON, but in
// practice they wrap it in code fences or surrounding prose; callers
// unmarshal the returned slice themselves.
func ExtractJSON(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)

	// Prefer a fenced block when present.
	if body, ok := fencedBlock(trimmed); ok {
		trimmed = body
	}

	start := strings.IndexAny(trimmed, "[{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON value in response")
	}

	end, err := matchBracket(trimmed, start)
	if err != nil {
		return nil, err
	}
	return []byte(trimmed[start : end+1]), nil
}

// fencedBlock returns the contents of the first ``` fence, tolerating a
// language tag on the opening fence.
func fencedBlock(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	rest := text[open+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		rest = rest[nl+1:]
	}
	close := strings.Index(rest, "```")
	if close < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:close]), true
}

// matchBracket scans from the opening bracket at start and returns the
// index of its matching close, respecting strings and escapes.
func matchBracket(text string, start int) (int, error) {
	openCh := text[start]
	var closeCh byte
	switch openCh {
	case '[':
		closeCh = ']'
	case '{':
		closeCh = '}'
	default:
		return 0, fmt.Errorf("unexpected start byte %q", openCh)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced JSON in response")
}
