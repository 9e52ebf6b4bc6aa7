package formula

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp     // + - * / == != < <= > >=
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
	tokIn
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer produces tokens for the restricted expression grammar: identifiers,
// numeric literals, single- or double-quoted strings, arithmetic and
// comparison operators, parentheses, and the keywords and/or/not/in.
type lexer struct {
	src  string
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '(':
			l.emit(tokLParen, "(")
		case c == ')':
			l.emit(tokRParen, ")")
		case c == '+' || c == '-' || c == '*' || c == '/':
			l.emit(tokOp, string(c))
		case c == '=' || c == '!' || c == '<' || c == '>':
			if err := l.lexComparison(); err != nil {
				return err
			}
		case c == '\'' || c == '"':
			if err := l.lexString(c); err != nil {
				return err
			}
		case c >= '0' && c <= '9' || c == '.':
			l.lexNumber()
		case isIdentStart(rune(c)):
			l.lexIdent()
		default:
			return &SyntaxError{Text: l.src, Pos: l.pos,
				Msg: "unexpected character " + string(c)}
		}
	}
	l.toks = append(l.toks, token{kind: tokEOF, pos: len(l.src)})
	return nil
}

func (l *lexer) emit(kind tokenKind, text string) {
	l.toks = append(l.toks, token{kind: kind, text: text, pos: l.pos})
	l.pos += len(text)
}

func (l *lexer) lexComparison() error {
	rest := l.src[l.pos:]
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(rest, op) {
			l.emit(tokOp, op)
			return nil
		}
	}
	return &SyntaxError{Text: l.src, Pos: l.pos,
		Msg: "incomplete operator " + string(l.src[l.pos])}
}

func (l *lexer) lexString(quote byte) error {
	start := l.pos
	end := strings.IndexByte(l.src[start+1:], quote)
	if end < 0 {
		return &SyntaxError{Text: l.src, Pos: start, Msg: "unterminated string literal"}
	}
	l.toks = append(l.toks, token{kind: tokString,
		text: l.src[start+1 : start+1+end], pos: start})
	l.pos = start + end + 2
	return nil
}

func (l *lexer) lexNumber() {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c >= '0' && c <= '9' || c == '.' {
			l.pos++
			continue
		}
		break
	}
	l.toks = append(l.toks, token{kind: tokNumber, text: l.src[start:l.pos], pos: start})
}

func (l *lexer) lexIdent() {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
		l.pos++
	}
	text := l.src[start:l.pos]
	kind := tokIdent
	switch text {
	case "and":
		kind = tokAnd
	case "or":
		kind = tokOr
	case "not":
		kind = tokNot
	case "in":
		kind = tokIn
	}
	l.toks = append(l.toks, token{kind: kind, text: text, pos: start})
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
