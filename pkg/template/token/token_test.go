package token_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelreyna/liquette/pkg/template/token"
)

func drain(s *token.Stream) []token.Token {
	var tokens []token.Token
	for t, ok := s.Next(); ok; t, ok = s.Next() {
		tokens = append(tokens, t)
	}
	return tokens
}

func TestLex(t *testing.T) {
	src := "<p>{{ title | upcase }}</p>\n{%- form class: \"a%}b\" -%}x{% endform %}"

	expected := []token.Token{
		{Kind: token.Text, Raw: "<p>", Line: 1},
		{Kind: token.Output, Args: "title | upcase", Raw: "{{ title | upcase }}", Line: 1},
		{Kind: token.Text, Raw: "</p>\n", Line: 1},
		{Kind: token.Tag, Name: "form", Args: `class: "a%}b"`, Raw: "{%- form class: \"a%}b\" -%}", Line: 2, TrimLeft: true, TrimRight: true},
		{Kind: token.Text, Raw: "x", Line: 2},
		{Kind: token.Tag, Name: "endform", Raw: "{% endform %}", Line: 2},
	}

	got := drain(token.Lex(src))
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("unexpected tokens (-want +got):\n%s", diff)
	}
	require.Equal(t, src, token.Concat(got))
}

func TestLexUnclosed(t *testing.T) {
	src := "a {% form b"
	got := drain(token.Lex(src))
	require.Len(t, got, 2)
	assert.Equal(t, token.Text, got[1].Kind)
	assert.Equal(t, "{% form b", got[1].Raw)
	assert.Equal(t, src, token.Concat(got))
}

func TestLexBraces(t *testing.T) {
	src := "a { b } {c}"
	got := drain(token.Lex(src))
	require.Len(t, got, 1)
	assert.Equal(t, src, got[0].Raw)
}

func TestScanBlock(t *testing.T) {
	const n = 5

	open := token.Token{Kind: token.Tag, Name: "paginate", Raw: "{% paginate %}"}
	tokens := make([]token.Token, 0, n+2)
	for i := 0; i < n; i++ {
		tokens = append(tokens, token.Token{Kind: token.Text, Raw: "x"})
	}
	tokens = append(tokens,
		token.Token{Kind: token.Tag, Name: "endpaginate", Raw: "{% endpaginate %}"},
		token.Token{Kind: token.Text, Raw: "after"},
	)

	s := token.NewStream(tokens...)
	block, err := token.ScanBlock(s, open, "endpaginate")
	require.NoError(t, err)
	assert.Len(t, block, n)
	assert.Equal(t, "xxxxx", token.Concat(block))

	// the end tag is consumed exactly once, the rest is left alone
	require.Equal(t, 1, s.Len())
	next, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "after", next.Raw)
}

func TestScanBlockStopsAtFirstEnd(t *testing.T) {
	s := token.Lex("{% javascript %}a{% javascript %}b{% endjavascript %}c{% endjavascript %}")
	open, _ := s.Next()

	block, err := token.ScanBlock(s, open, "endjavascript")
	require.NoError(t, err)
	assert.Equal(t, "a{% javascript %}b", token.Concat(block))
	for _, tok := range block {
		assert.False(t, tok.IsTag("endjavascript"))
	}
}

func TestScanBlockUnterminated(t *testing.T) {
	s := token.Lex("{% schema %}{\"name\": \"x\"}")
	open, _ := s.Next()

	_, err := token.ScanBlock(s, open, "endschema")
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrUnterminatedBlock))

	var ube *token.UnterminatedBlockError
	require.True(t, errors.As(err, &ube))
	assert.Equal(t, "{% schema %}", ube.Open)
	assert.Contains(t, err.Error(), "{% schema %}")
	assert.Equal(t, 0, s.Len())
}

func TestScanBlockTrimMarkers(t *testing.T) {
	s := token.Lex("{% javascript -%}\n  x {{ y }}\n {%- endjavascript -%} after")
	open, _ := s.Next()

	block, err := token.ScanBlock(s, open, "endjavascript")
	require.NoError(t, err)

	end, ok := s.Last()
	require.True(t, ok)
	assert.True(t, end.IsTag("endjavascript"))
	assert.True(t, end.TrimLeft)
	assert.True(t, end.TrimRight)

	trimmed := token.TrimBlock(open, end, block)
	assert.Equal(t, "x {{ y }}", token.Concat(trimmed))
	// the scanned tokens are left as they were
	assert.Equal(t, "\n  x {{ y }}\n ", token.Concat(block))

	// markers facing away from the body do not touch it
	outer := token.Token{Kind: token.Tag, TrimLeft: true}
	assert.Equal(t, "\n  x {{ y }}\n ", token.Concat(token.TrimBlock(outer, outer, block)))
}

func TestStreamLast(t *testing.T) {
	s := token.NewStream(token.Token{Raw: "a"}, token.Token{Raw: "b"})
	_, ok := s.Last()
	assert.False(t, ok)

	s.Next()
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "a", last.Raw)
}
