// Package token splits Liquid template source into tokens and buffers nested
// blocks of them for custom tags.
package token

import "fmt"

// Kind discriminates tokens.
type Kind int

const (
	// Text is literal template text.
	Text Kind = iota
	// Output is an output statement, {{ ... }}.
	Output
	// Tag is a tag statement, {% name args %}.
	Tag
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Output:
		return "output"
	case Tag:
		return "tag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is one lexical unit of template source.
type Token struct {
	Kind Kind
	// Name is the tag name. Only set for Tag tokens.
	Name string
	// Args is the trimmed text following the tag name.
	Args string
	// Raw is the exact source text of the token.
	Raw string
	// Line is the 1-based line the token starts on.
	Line int
	// TrimLeft and TrimRight record Liquid whitespace control markers ({%- and -%}).
	TrimLeft  bool
	TrimRight bool
}

// IsTag reports whether t is a tag named name.
func (t Token) IsTag(name string) bool {
	return t.Kind == Tag && t.Name == name
}

func (t Token) String() string {
	return t.Raw
}

// Stream is an ordered sequence of tokens consumed front to back.
// Consumed tokens cannot be read again.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream returns a stream over tokens.
func NewStream(tokens ...Token) *Stream {
	return &Stream{tokens: tokens}
}

// Next removes and returns the next token. ok is false once the stream is exhausted.
func (s *Stream) Next() (t Token, ok bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	t = s.tokens[s.pos]
	s.pos++
	return t, true
}

// Last returns the most recently consumed token. ok is false if nothing has
// been consumed yet.
func (s *Stream) Last() (t Token, ok bool) {
	if s.pos == 0 {
		return Token{}, false
	}
	return s.tokens[s.pos-1], true
}

// Len returns the number of tokens left.
func (s *Stream) Len() int {
	return len(s.tokens) - s.pos
}
