package token

import (
	"strings"
	"unicode"
)

const (
	outputOpen  = "{{"
	outputClose = "}}"
	tagOpen     = "{%"
	tagClose    = "%}"
)

type lexer struct {
	src    string
	pos    int
	start  int
	line   int
	tokens []Token
}

type stateFn func(*lexer) stateFn

// Lex tokenizes src. Lexing never fails: a delimiter that is never closed is
// returned as trailing text and left for the template engine to report.
func Lex(src string) *Stream {
	l := &lexer{
		src:  src,
		line: 1,
	}
	for state := lexText; state != nil; {
		state = state(l)
	}
	return NewStream(l.tokens...)
}

func (l *lexer) emit(t Token) {
	t.Raw = l.src[l.start:l.pos]
	t.Line = l.line
	l.tokens = append(l.tokens, t)
	l.line += strings.Count(t.Raw, "\n")
	l.start = l.pos
}

func lexText(l *lexer) stateFn {
	rest := l.src[l.pos:]
	i := strings.Index(rest, "{")
	for i >= 0 {
		switch {
		case strings.HasPrefix(rest[i:], outputOpen):
			return l.textBefore(i, lexOutput)
		case strings.HasPrefix(rest[i:], tagOpen):
			return l.textBefore(i, lexTag)
		}
		j := strings.Index(rest[i+1:], "{")
		if j < 0 {
			break
		}
		i += j + 1
	}

	l.pos = len(l.src)
	if l.pos > l.start {
		l.emit(Token{Kind: Text})
	}
	return nil
}

func (l *lexer) textBefore(i int, next stateFn) stateFn {
	l.pos += i
	if l.pos > l.start {
		l.emit(Token{Kind: Text})
	}
	return next
}

func lexOutput(l *lexer) stateFn {
	inner, ok := l.delimited(outputOpen, outputClose)
	if !ok {
		return lexUnclosed
	}
	left, right, body := trimMarkers(inner)
	l.emit(Token{Kind: Output, Args: body, TrimLeft: left, TrimRight: right})
	return lexText
}

func lexTag(l *lexer) stateFn {
	inner, ok := l.delimited(tagOpen, tagClose)
	if !ok {
		return lexUnclosed
	}
	left, right, body := trimMarkers(inner)
	name, args := splitTag(body)
	l.emit(Token{
		Kind:      Tag,
		Name:      name,
		Args:      args,
		TrimLeft:  left,
		TrimRight: right,
	})
	return lexText
}

func lexUnclosed(l *lexer) stateFn {
	l.pos = len(l.src)
	l.emit(Token{Kind: Text})
	return nil
}

// delimited advances past a delimited statement starting at l.pos and returns
// the text between the delimiters. Closing delimiters inside quoted strings
// do not count.
func (l *lexer) delimited(open, close string) (string, bool) {
	body := l.pos + len(open)
	var quote byte
	for i := body; i < len(l.src); i++ {
		c := l.src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case strings.HasPrefix(l.src[i:], close):
			l.pos = i + len(close)
			return l.src[body:i], true
		}
	}
	return "", false
}

func trimMarkers(inner string) (left, right bool, body string) {
	body = inner
	if strings.HasPrefix(body, "-") {
		left = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "-") {
		right = true
		body = body[:len(body)-1]
	}
	return left, right, strings.TrimSpace(body)
}

func splitTag(body string) (name, args string) {
	end := strings.IndexFunc(body, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if end < 0 {
		return body, ""
	}
	return body[:end], strings.TrimSpace(body[end:])
}
