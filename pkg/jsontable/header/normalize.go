package header

import (
	"regexp"
	"strings"
)

var bracketPattern = regexp.MustCompile(`\s*[(（]([^()（）]*)[)）]`)

// separatorRunes are replaced by the separator during normalization.
var separatorRunes = map[rune]bool{
	' ': true, '\t': true, '\n': true, '\r': true, '　': true,
	'-': true, '/': true, '\\': true, '.': true, ',': true,
	':': true, ';': true, '|': true, '・': true, '、': true, '。': true,
	'[': true, ']': true, '{': true, '}': true, '「': true, '」': true,
}

// Normalize cleans a merged header name: bracketed suffixes become a
// separator-prefixed suffix, punctuation and whitespace become sep, runs of
// sep collapse and leading or trailing sep is stripped. An empty result
// yields BlankMarker.
func Normalize(name, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	name = strings.TrimSpace(name)
	name = bracketPattern.ReplaceAllStringFunc(name, func(m string) string {
		return sep + bracketPattern.FindStringSubmatch(m)[1]
	})

	var b strings.Builder
	for _, r := range name {
		if separatorRunes[r] {
			b.WriteString(sep)
			continue
		}
		b.WriteRune(r)
	}
	name = b.String()

	doubled := sep + sep
	for strings.Contains(name, doubled) {
		name = strings.ReplaceAll(name, doubled, sep)
	}
	for strings.HasPrefix(name, sep) {
		name = strings.TrimPrefix(name, sep)
	}
	for strings.HasSuffix(name, sep) {
		name = strings.TrimSuffix(name, sep)
	}

	if name == "" {
		return BlankMarker
	}
	return name
}
