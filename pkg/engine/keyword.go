package engine

import (
	"strings"
	"unicode"
)

// FirstKeyword returns the upper-cased first word of stmt, skipping
// comments and opening parentheses.
func FirstKeyword(stmt string) string {
	s := stmt
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = s[i+2:]
		case strings.HasPrefix(s, "("):
			s = s[1:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !unicode.IsLetter(r) && r != '_'
			})
			if end < 0 {
				end = len(s)
			}
			return strings.ToUpper(s[:end])
		}
	}
}

// MainKeyword returns the upper-cased keyword of the statement that
// follows the common table expressions of a WITH statement. For any other
// statement it is the same as FirstKeyword.
func MainKeyword(stmt string) string {
	if FirstKeyword(stmt) != "WITH" {
		return FirstKeyword(stmt)
	}

	depth := 0
	afterBody := false
	for _, tok := range topLevelTokens(stmt) {
		switch tok {
		case "(":
			depth++
			afterBody = false
			continue
		case ")":
			if depth > 0 {
				depth--
			}
			afterBody = depth == 0
			continue
		}
		if depth > 0 {
			continue
		}
		if afterBody {
			// "name (cols) AS (...)": a column list is followed by AS.
			if tok != "," && tok != "AS" {
				return tok
			}
		}
		afterBody = false
	}
	return ""
}

// ContainsWord reports whether stmt contains word as a whole word,
// ignoring case.
func ContainsWord(stmt, word string) bool {
	for _, f := range strings.FieldsFunc(strings.ToUpper(stmt), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '_'
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// topLevelTokens splits stmt into upper-cased words, parentheses and
// commas. Quoted text and comments are dropped.
func topLevelTokens(stmt string) []string {
	var toks []string
	i := 0
	for i < len(stmt) {
		c := stmt[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(stmt, i, c, c)
			toks = append(toks, "?")
		case c == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
			for i < len(stmt) && stmt[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
			end := strings.Index(stmt[i+2:], "*/")
			if end < 0 {
				i = len(stmt)
			} else {
				i += end + 4
			}
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, string(c))
			i++
		case isWordByte(c):
			j := i
			for j < len(stmt) && isWordByte(stmt[j]) {
				j++
			}
			toks = append(toks, strings.ToUpper(stmt[i:j]))
			i = j
		default:
			i++
		}
	}
	return toks
}
