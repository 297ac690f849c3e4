package abcparse

import (
	"regexp"
	"strings"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineNote
	lineNumbering
	lineTitle
	lineHeader
	lineBody
)

var (
	numberingPattern = regexp.MustCompile(`^X:\s*([0-9]+)`)
	titlePattern     = regexp.MustCompile(`^T:\s*(.*\S)`)
	notePattern      = regexp.MustCompile(`^%%text\s+(.*)`)
)

// sourceLine is one input line after classification.
type sourceLine struct {
	number int
	raw    string
	kind   lineKind
	field  byte
	value  string
}

func classify(number int, raw string) sourceLine {
	raw = strings.TrimRight(raw, "\r")
	line := sourceLine{number: number, raw: raw, kind: lineBody}
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		line.kind = lineBlank
	case strings.HasPrefix(trimmed, "%"):
		line.kind = lineComment
		if m := notePattern.FindStringSubmatch(trimmed); m != nil {
			if note := strings.TrimSpace(m[1]); note != "" {
				line.kind = lineNote
				line.value = note
			}
		}
	case numberingPattern.MatchString(trimmed):
		line.kind = lineNumbering
		line.field = 'X'
		line.value = numberingPattern.FindStringSubmatch(trimmed)[1]
	default:
		if m := titlePattern.FindStringSubmatch(trimmed); m != nil {
			line.kind = lineTitle
			line.field = 'T'
			line.value = strings.TrimSpace(m[1])
			return line
		}
		if field, value, ok := splitHeader(trimmed); ok {
			line.kind = lineHeader
			line.field = field
			line.value = value
		}
	}
	return line
}

// splitHeader recognises "F:value" where F is a single ASCII letter. A bar
// line such as "G:|" or "A::" is music that happens to start with a note, not
// a header.
func splitHeader(line string) (byte, string, bool) {
	if len(line) < 2 || line[1] != ':' || !isFieldLetter(line[0]) {
		return 0, "", false
	}
	rest := line[2:]
	if strings.HasPrefix(rest, "|") || strings.HasPrefix(rest, ":") {
		return 0, "", false
	}
	return line[0], strings.TrimSpace(rest), true
}

func isFieldLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
