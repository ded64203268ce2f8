package render

import "strings"

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Whitespace that could break attribute parsing is escaped as well.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeRawText neutralizes a closing tag inside raw text elements so the
// content cannot terminate its own element early. Matching is ASCII
// case-insensitive on s itself; other bytes are copied through untouched.
func escapeRawText(tag, s string) string {
	closing := "</" + tag
	n := len(closing)

	var buf strings.Builder
	start := 0
	for i := 0; i+n <= len(s); i++ {
		if s[i] != '<' || !hasPrefixFoldASCII(s[i:], closing) {
			continue
		}
		if start == 0 {
			buf.Grow(len(s) + 8)
		}
		buf.WriteString(s[start:i])
		buf.WriteString(`<\/`)
		buf.WriteString(s[i+2 : i+n])
		start = i + n
		i = start - 1
	}
	if start == 0 {
		return s
	}
	buf.WriteString(s[start:])
	return buf.String()
}

// hasPrefixFoldASCII reports whether s starts with prefix, ignoring ASCII
// case. prefix must be lower-case.
func hasPrefixFoldASCII(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != prefix[i] {
			return false
		}
	}
	return true
}
