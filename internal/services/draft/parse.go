// File: internal/services/draft/parse.go
package draft

import (
	"strings"
	"unicode"
)

const (
	subjectMarker = "Subject: "
	bodyMarker    = "Body:"
)

// ParseDraft splits model output into subject and body. The subject follows
// the first "Subject: " marker and ends at "Body:" if present, otherwise at
// the end of that line.
func ParseDraft(text string) (string, string, error) {
	start := strings.Index(text, subjectMarker)
	if start < 0 {
		return "", "", NewMalformedOutputError("model output has no subject marker")
	}
	rest := text[start+len(subjectMarker):]

	var subject, body string
	if idx := strings.Index(rest, bodyMarker); idx >= 0 {
		subject, body = rest[:idx], rest[idx+len(bodyMarker):]
	} else {
		idx := strings.Index(rest, "\n")
		if idx < 0 {
			return "", "", NewMalformedOutputError("model output has no body")
		}
		subject, body = rest[:idx], rest[idx+1:]
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", "", NewMalformedOutputError("model output has an empty subject")
	}

	body = strings.TrimLeft(body, " \t")
	switch {
	case strings.HasPrefix(body, "\r\n"):
		body = body[2:]
	case strings.HasPrefix(body, "\n"):
		body = body[1:]
	}
	return subject, body, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// trailingPunctuation returns the run of non-word characters (underscore
// included) at the end of s.
func trailingPunctuation(s string) string {
	trimmed := strings.TrimRightFunc(s, func(r rune) bool { return !isWordRune(r) })
	return s[len(trimmed):]
}

// restorePunctuation replaces the trailing punctuation of generated with
// that of original.
func restorePunctuation(original, generated string) string {
	stripped := strings.TrimRightFunc(generated, func(r rune) bool { return !isWordRune(r) })
	return stripped + trailingPunctuation(original)
}
