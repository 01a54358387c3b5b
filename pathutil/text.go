package pathutil

import (
	"strings"
	"unicode"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Distinct returns values with duplicates removed, keeping the first occurrence order.
func Distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// LongestCommonPrefix returns the longest byte prefix shared by all paths.
func LongestCommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	baseLength := len(paths[0])
	for _, p := range paths[1:] {
		if len(p) < baseLength {
			baseLength = len(p)
		}
		for i := 0; i < baseLength; i++ {
			if p[i] != paths[0][i] {
				baseLength = i
				break
			}
		}
	}
	return paths[0][:baseLength]
}

// SplitCommandLine splits a command line into arguments.
// Whitespace separates arguments, double quotes group text and are removed,
// and a backslash escapes a double quote.
func SplitCommandLine(line string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	hasToken := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			hasToken = true
			i++
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case unicode.IsSpace(r) && !inQuotes:
			if hasToken {
				args = append(args, current.String())
				current.Reset()
				hasToken = false
			}
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}
	if hasToken {
		args = append(args, current.String())
	}
	return args
}
