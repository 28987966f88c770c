package menu

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

// Normalize turns the raw text returned by the vision model into a
// schema-valid menu. Model output is frequently wrapped in markdown
// fences, preceded by prose, or truncated mid-generation; all of those
// are repaired here. Normalize never fails: unrecoverable input
// degrades to the skeleton menu.
func Normalize(raw string) *NormalizedMenu {
	clean := sanitize(raw)

	// Clean output from a well-behaved model: one JSON object.
	if m, ok := decodePayload(clean); ok {
		return m
	}

	// Noisy output: pull the first balanced top-level object out of the
	// surrounding text.
	if candidate, ok := extractBalanced(clean); ok {
		if m, ok := decodePayload(candidate); ok {
			return m
		}
		log.Printf("menu: balanced object found but shape not recognized, using skeleton")
		return Skeleton()
	}

	// Truncated generation (token limit hit mid-array). Soft cut keeps
	// whatever sits between the first '{' and the last '}'.
	if candidate, ok := softCut(clean); ok {
		if m, ok := decodePayload(candidate); ok {
			return m
		}
	}

	// The soft cut is usually unbalanced after a mid-array truncation.
	// Closing the open brackets after the last complete element recovers
	// the fully-formed leading items.
	if candidate, ok := closeTruncated(clean); ok {
		if m, ok := decodePayload(candidate); ok {
			return m
		}
	}

	log.Printf("menu: vision JSON unrecoverable, using skeleton (len=%d)", len(raw))
	return Skeleton()
}

// Skeleton is the guaranteed-valid fallback menu.
func Skeleton() *NormalizedMenu {
	return &NormalizedMenu{
		RestaurantName: "Restaurant Menu",
		MenuSections: []MenuSection{
			{SectionName: "Menu Items", Items: []MenuItem{}},
		},
	}
}

var fenceRe = regexp.MustCompile("(?i)```json\\s*|\\s*```")

func sanitize(raw string) string {
	s := fenceRe.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ToValidUTF8(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		// Drop control characters that break json decoding; keep
		// newline and tab.
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		if r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

type rawPayload struct {
	RestaurantName string        `json:"restaurant_name"`
	MenuSections   []MenuSection `json:"menu_sections"`
	Items          []MenuItem    `json:"items"`
}

// decodePayload accepts the two known top-level shapes:
// {menu_sections:[...]} and the legacy flat {items:[...]} form.
func decodePayload(s string) (*NormalizedMenu, bool) {
	if s == "" {
		return nil, false
	}

	var p rawPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, false
	}

	out := &NormalizedMenu{RestaurantName: p.RestaurantName}
	if out.RestaurantName == "" {
		out.RestaurantName = "Restaurant Menu"
	}

	switch {
	case p.MenuSections != nil:
		out.MenuSections = p.MenuSections
	case p.Items != nil:
		out.MenuSections = []MenuSection{
			{SectionName: "Menu Items", Items: p.Items},
		}
	default:
		return nil, false
	}

	for i := range out.MenuSections {
		if out.MenuSections[i].SectionName == "" {
			out.MenuSections[i].SectionName = "Menu Items"
		}
		if out.MenuSections[i].Items == nil {
			out.MenuSections[i].Items = []MenuItem{}
		}
	}
	return out, true
}

// extractBalanced scans forward from the first '{' tracking brace depth
// and string-literal state. The first top-level object whose depth
// returns to zero wins.
func extractBalanced(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			if esc {
				esc = false
				continue
			}
			switch c {
			case '\\':
				esc = true
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// softCut slices from the first '{' to the last '}' anywhere in the
// text, without checking balance. Favors a parseable-but-incomplete
// tail-truncated payload over nothing.
func softCut(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// closeTruncated rewinds a truncated payload to the last completely
// closed element and appends the closers still open at that point.
func closeTruncated(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	var stack []byte
	var openAtCut []byte
	cut := -1
	inStr := false
	esc := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			if esc {
				esc = false
				continue
			}
			switch c {
			case '\\':
				esc = true
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return "", false
			}
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				return "", false
			}
			stack = stack[:len(stack)-1]
			cut = i
			openAtCut = append(openAtCut[:0], stack...)
		}
	}

	if cut < 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(s[start : cut+1])
	for i := len(openAtCut) - 1; i >= 0; i-- {
		if openAtCut[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}
