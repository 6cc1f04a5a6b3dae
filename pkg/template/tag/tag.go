// Package tag implements the custom block tags understood by liquette
// templates and the registry that maps tag names to them.
//
// A tag is handled in two phases. At parse time its ParseFunc consumes the
// opening tag's arguments and, for block tags, the tokens up to the matching
// end tag. At render time the resulting Tag produces its output, delegating
// the rendering of any nested template text back to the engine through a
// Renderer.
package tag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/raphaelreyna/liquette/pkg/template/token"
)

var (
	ErrDuplicateTag     = errors.New("tag already registered")
	ErrMissingArgument  = errors.New("missing tag argument")
	ErrMissingSchema    = errors.New("section output has no schema block")
	ErrEmptySectionName = errors.New("section name resolved to an empty string")
)

// Renderer renders nested template text. It is implemented by the engine.
type Renderer interface {
	RenderString(ctx context.Context, src string, bindings map[string]any) (string, error)
	RenderFile(ctx context.Context, path string, bindings map[string]any) (string, error)
}

// Context is the render-time environment of a tag.
type Context struct {
	// Bindings holds the variables visible where the tag occurs.
	Bindings map[string]any
	Renderer Renderer
}

// Tag is a parsed tag occurrence.
type Tag interface {
	Name() string
	Render(ctx context.Context, c *Context) (string, error)
}

// ParseFunc parses the tag opened by open, consuming whatever else it needs from s.
type ParseFunc func(s *token.Stream, open token.Token) (Tag, error)

// Registry maps tag names to their parsers. It is filled once before any
// template is parsed and is read-only afterwards.
type Registry struct {
	parsers map[string]ParseFunc
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]ParseFunc)}
}

func (r *Registry) Register(name string, fn ParseFunc) error {
	if name == "" {
		return errors.New("empty tag name")
	}
	if fn == nil {
		return fmt.Errorf("nil parser for tag %s", name)
	}
	if _, found := r.parsers[name]; found {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, name)
	}
	r.parsers[name] = fn
	return nil
}

func (r *Registry) Lookup(name string) (ParseFunc, bool) {
	fn, ok := r.parsers[name]
	return fn, ok
}

// Names returns the registered tag names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// block is the common state of block tags: the opening tag and the raw
// tokens up to its end tag.
type block struct {
	open token.Token
	body []token.Token
}

func scan(s *token.Stream, open token.Token) (block, error) {
	body, err := token.ScanBlock(s, open, "end"+open.Name)
	if err != nil {
		return block{}, err
	}
	end, _ := s.Last()
	return block{open: open, body: token.TrimBlock(open, end, body)}, nil
}

func (b block) Name() string {
	return b.open.Name
}

func (b block) text() string {
	return token.Concat(b.body)
}

// renderBody renders the buffered block against the current bindings.
func (b block) renderBody(ctx context.Context, c *Context) (string, error) {
	return c.Renderer.RenderString(ctx, b.text(), c.Bindings)
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '\'') && s[len(s)-1] == q
}

func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// resolveArg renders a quoted argument against the current bindings.
// Unquoted arguments are taken literally.
func resolveArg(ctx context.Context, c *Context, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if !isQuoted(arg) {
		return arg, nil
	}
	s, err := c.Renderer.RenderString(ctx, unquote(arg), c.Bindings)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// splitArgs splits a tag argument string on commas outside of quotes.
func splitArgs(args string) []string {
	var (
		parts []string
		quote rune
		start int
	)
	for i, r := range args {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ',':
			parts = append(parts, strings.TrimSpace(args[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(args[start:]); last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	return parts
}
