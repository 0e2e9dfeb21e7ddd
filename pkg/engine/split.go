package engine

import (
	"strings"
	"unicode"
)

// SplitStatements splits SQL text into individual statements.
//
// A semicolon ends a statement unless it appears inside a string literal,
// a quoted identifier, a comment, or the BEGIN ... END body of a
// CREATE TRIGGER statement. The terminating semicolon is not included.
// Statements consisting only of whitespace and comments are dropped.
func SplitStatements(sqlText string) []string {
	var (
		stmts []string
		s     splitState
	)

	start := 0
	i := 0
	for i < len(sqlText) {
		c := sqlText[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(sqlText, i, c, c)
			s.sawToken = true
		case c == '[':
			i = skipQuoted(sqlText, i, '[', ']')
			s.sawToken = true
		case c == '-' && i+1 < len(sqlText) && sqlText[i+1] == '-':
			for i < len(sqlText) && sqlText[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(sqlText) && sqlText[i+1] == '*':
			end := strings.Index(sqlText[i+2:], "*/")
			if end < 0 {
				i = len(sqlText)
			} else {
				i += end + 4
			}
		case c == ';':
			if s.complete() {
				if s.sawToken {
					stmts = append(stmts, strings.TrimSpace(sqlText[start:i]))
				}
				s = splitState{}
				start = i + 1
			}
			i++
		case isWordByte(c):
			j := i
			for j < len(sqlText) && isWordByte(sqlText[j]) {
				j++
			}
			s.word(strings.ToUpper(sqlText[i:j]))
			i = j
		default:
			if !unicode.IsSpace(rune(c)) {
				s.sawToken = true
			}
			i++
		}
	}

	if s.sawToken {
		if rest := strings.TrimSpace(sqlText[start:]); rest != "" {
			stmts = append(stmts, rest)
		}
	}
	return stmts
}

// splitState tracks the statement currently being scanned.
type splitState struct {
	sawToken  bool
	lead      []string // first words of the statement
	trigger   bool
	seenBegin bool
	depth     int
}

func (s *splitState) word(w string) {
	s.sawToken = true

	if len(s.lead) < 3 {
		s.lead = append(s.lead, w)
		if isCreateTrigger(s.lead) {
			s.trigger = true
		}
	}
	if !s.trigger {
		return
	}

	switch w {
	case "BEGIN":
		s.seenBegin = true
		s.depth++
	case "CASE":
		if s.seenBegin {
			s.depth++
		}
	case "END":
		if s.depth > 0 {
			s.depth--
		}
	}
}

func (s *splitState) complete() bool {
	if !s.trigger {
		return true
	}
	return s.seenBegin && s.depth == 0
}

func isCreateTrigger(lead []string) bool {
	if len(lead) < 2 || lead[0] != "CREATE" {
		return false
	}
	if lead[1] == "TRIGGER" {
		return true
	}
	return len(lead) == 3 && (lead[1] == "TEMP" || lead[1] == "TEMPORARY") && lead[2] == "TRIGGER"
}

// skipQuoted returns the index just past the quoted run starting at i.
// A doubled closing quote is an escaped quote.
func skipQuoted(s string, i int, open, closing byte) int {
	i++ // opening quote
	for i < len(s) {
		if s[i] == closing {
			if open == closing && i+1 < len(s) && s[i+1] == closing {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
