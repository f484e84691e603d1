package prompt

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMissingSeparator is returned when a reply does not contain the pipe
// separator the prompt asked for.
var ErrMissingSeparator = errors.New("reply does not contain the | separator")

var whitespacePattern = regexp.MustCompile(`\s+`)

// ParseNameDescription splits a name|description reply. Extra pipes are
// folded into the description. Both halves are sanitized.
func ParseNameDescription(reply string) (string, string, error) {
	parts := strings.SplitN(reply, "|", 2)
	if len(parts) < 2 {
		return "", "", ErrMissingSeparator
	}
	name := strings.TrimSpace(StripNonASCII(parts[0]))
	description := Printable(parts[1])
	if name == "" {
		return "", "", ErrMissingSeparator
	}
	return name, description, nil
}

// ParsePair splits a two-sided relationship reply into its directions.
func ParsePair(reply string) (string, string, error) {
	parts := strings.SplitN(reply, "|", 2)
	if len(parts) < 2 {
		return "", "", ErrMissingSeparator
	}
	return Printable(parts[0]), Printable(parts[1]), nil
}

// Printable runs the full sanitization pipeline used on every generated
// description.
func Printable(text string) string {
	return TrimLeadingWhitespace(TrimIncompleteSentence(CollapseDoubleNewlines(StripNonASCII(text))))
}

// StripNonASCII drops every byte outside the 7-bit range.
func StripNonASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r <= 0x7F {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseDoubleNewlines removes paragraph breaks so a description reads as
// one block.
func CollapseDoubleNewlines(text string) string {
	text = strings.ReplaceAll(text, " \n\n", "")
	return strings.ReplaceAll(text, "\n\n", "")
}

// TrimIncompleteSentence cuts a truncated trailing fragment after the last
// full stop and closes the text with one.
func TrimIncompleteSentence(text string) string {
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		text = text[:idx]
	}
	return text + "."
}

func TrimLeadingWhitespace(text string) string {
	return strings.TrimLeft(text, " \t\n\r")
}

// CollapseWhitespace removes all whitespace. World names are squashed this
// way so they can serve as file and key names.
func CollapseWhitespace(text string) string {
	return whitespacePattern.ReplaceAllString(text, "")
}
