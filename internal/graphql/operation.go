package graphql

import (
	"fmt"
	"unicode"
)

// OperationTypes returns the keyword of every top-level definition in a
// document ("query", "mutation", "subscription" or "fragment"); the
// shorthand `{ ... }` form reports "query". Strings and comments are skipped.
func OperationTypes(document string) []string {
	var ops []string
	s := newScanner(document)
	expectDefinition := true
	for {
		tok, ok := s.next()
		if !ok {
			return ops
		}
		switch {
		case tok == "{" && s.depth == 1 && expectDefinition:
			ops = append(ops, "query")
			expectDefinition = false
		case tok == "}" && s.depth == 0:
			expectDefinition = true
		case isName(tok) && s.depth == 0 && s.parens == 0 && expectDefinition:
			ops = append(ops, tok)
			expectDefinition = false
		}
	}
}

// IsMutation reports whether any top-level operation is a mutation.
func IsMutation(document string) bool {
	for _, op := range OperationTypes(document) {
		if op == "mutation" {
			return true
		}
	}
	return false
}

// CheckBalanced reports unbalanced braces, parentheses or brackets. It is a
// lexical sanity check used for warnings, not a GraphQL parser.
func CheckBalanced(document string) error {
	s := newScanner(document)
	for {
		if _, ok := s.next(); !ok {
			break
		}
		if s.depth < 0 || s.parens < 0 || s.brackets < 0 {
			return fmt.Errorf("unexpected closing delimiter at offset %d", s.pos-1)
		}
	}
	if s.unterminated {
		return fmt.Errorf("unterminated string literal")
	}
	if s.depth != 0 || s.parens != 0 || s.brackets != 0 {
		return fmt.Errorf("unbalanced delimiters: %d brace(s), %d paren(s), %d bracket(s) left open", s.depth, s.parens, s.brackets)
	}
	return nil
}

// scanner yields names and punctuation while tracking nesting depth.
type scanner struct {
	src          []rune
	pos          int
	depth        int
	parens       int
	brackets     int
	unterminated bool
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src)}
}

func (s *scanner) next() (string, bool) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case unicode.IsSpace(c) || c == ',':
			s.pos++
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '"':
			s.skipString()
		case c == '_' || unicode.IsLetter(c):
			start := s.pos
			for s.pos < len(s.src) && (s.src[s.pos] == '_' || unicode.IsLetter(s.src[s.pos]) || unicode.IsDigit(s.src[s.pos])) {
				s.pos++
			}
			return string(s.src[start:s.pos]), true
		default:
			s.pos++
			switch c {
			case '{':
				s.depth++
			case '}':
				s.depth--
			case '(':
				s.parens++
			case ')':
				s.parens--
			case '[':
				s.brackets++
			case ']':
				s.brackets--
			}
			return string(c), true
		}
	}
	return "", false
}

func (s *scanner) skipString() {
	if s.pos+2 < len(s.src) && s.src[s.pos+1] == '"' && s.src[s.pos+2] == '"' {
		s.pos += 3
		for s.pos+2 < len(s.src) {
			if s.src[s.pos] == '"' && s.src[s.pos+1] == '"' && s.src[s.pos+2] == '"' {
				s.pos += 3
				return
			}
			s.pos++
		}
		s.pos = len(s.src)
		s.unterminated = true
		return
	}
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '"':
			s.pos++
			return
		case '\n':
			s.unterminated = true
			return
		}
		s.pos++
	}
	s.unterminated = true
}

func isName(tok string) bool {
	if tok == "" {
		return false
	}
	c := []rune(tok)[0]
	return c == '_' || unicode.IsLetter(c)
}
