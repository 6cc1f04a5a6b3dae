package token

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminatedBlock is matched by errors returned from ScanBlock when the
// stream runs out before the closing tag.
var ErrUnterminatedBlock = errors.New("unterminated block")

// UnterminatedBlockError names the opening tag of a block that was never closed.
type UnterminatedBlockError struct {
	// Open is the literal text of the opening tag.
	Open string
	// End is the closing tag name that was expected.
	End  string
	Line int
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("line %d: tag %s not closed by {%% %s %%}", e.Line, e.Open, e.End)
}

func (e *UnterminatedBlockError) Unwrap() error {
	return ErrUnterminatedBlock
}

// ScanBlock consumes tokens from s up to and including the first tag named end
// and returns the tokens in between. The closing tag is not returned; it is
// available from s.Last once ScanBlock succeeds. Nesting is
// not tracked: an inner block with the same end tag closes the outer one.
func ScanBlock(s *Stream, open Token, end string) ([]Token, error) {
	var block []Token
	for {
		t, ok := s.Next()
		if !ok {
			return nil, &UnterminatedBlockError{
				Open: open.Raw,
				End:  end,
				Line: open.Line,
			}
		}
		if t.IsTag(end) {
			return block, nil
		}
		block = append(block, t)
	}
}

// TrimBlock applies the whitespace control markers facing a block's body:
// the opening tag's -%} trims the start of body and the end tag's {%- trims
// its end. body is not modified.
func TrimBlock(open, end Token, body []Token) []Token {
	out := make([]Token, len(body))
	copy(out, body)
	if len(out) == 0 {
		return out
	}
	if first := &out[0]; open.TrimRight && first.Kind == Text {
		first.Raw = strings.TrimLeft(first.Raw, whitespace)
	}
	if last := &out[len(out)-1]; end.TrimLeft && last.Kind == Text {
		last.Raw = strings.TrimRight(last.Raw, whitespace)
	}
	return out
}

const whitespace = " \t\n\v\f\r"

// Concat reconstitutes the source text of tokens.
func Concat(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Raw)
	}
	return sb.String()
}
