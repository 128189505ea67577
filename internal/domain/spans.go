package domain

import (
	"regexp"
	"strings"
)

// span classifies a byte of a document.
type span byte

const (
	inCode span = iota
	inString
	inComment
)

// lexSpans marks which bytes of s sit inside a string literal or a comment.
// Opening quotes count as code so that a quoted key starts in code.
func lexSpans(s string) []span {
	spans := make([]span, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '\'' || c == '"' || c == '`':
			j := i + 1
			for j < len(s) && s[j] != c && (c == '`' || s[j] != '\n') {
				if s[j] == '\\' {
					j++
				}

				j++
			}

			end := min(j, len(s))
			if j < len(s) && s[j] == c {
				end = j + 1
			}

			mark(spans, i+1, end, inString)
			i = end - 1
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			end := len(s)
			if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
				end = i + nl
			}

			mark(spans, i, end, inComment)
			i = end - 1
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := len(s)
			if stop := strings.Index(s[i+2:], "*/"); stop >= 0 {
				end = i + 2 + stop + 2
			}

			mark(spans, i, end, inComment)
			i = end - 1
		}
	}

	return spans
}

func mark(spans []span, from, to int, kind span) {
	for i := from; i < to; i++ {
		spans[i] = kind
	}
}

// findFields returns the submatch indexes of every match of re in s that
// starts a field: in code, and preceded only by whitespace or comments since
// the last '{' or ',' (or the start of s).
func findFields(s string, spans []span, re *regexp.Regexp) [][]int {
	var matches [][]int

	for from := 0; from < len(s); {
		loc := re.FindStringSubmatchIndex(s[from:])
		if loc == nil {
			break
		}

		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += from
			}
		}

		if !fieldStart(s, spans, loc[0]) {
			from = loc[0] + 1
			continue
		}

		matches = append(matches, loc)
		from = loc[1]
	}

	return matches
}

func fieldStart(s string, spans []span, at int) bool {
	if spans[at] != inCode {
		return false
	}

	for i := at - 1; i >= 0; i-- {
		if spans[i] == inComment || isSpace(s[i]) {
			continue
		}

		return s[i] == '{' || s[i] == ','
	}

	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
