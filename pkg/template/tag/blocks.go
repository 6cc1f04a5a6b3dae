package tag

import (
	"context"

	"github.com/raphaelreyna/liquette/pkg/template/token"
)

// paginate renders its body unchanged. It only marks a pagination boundary.
type paginate struct {
	block
}

func ParsePaginate(s *token.Stream, open token.Token) (Tag, error) {
	b, err := scan(s, open)
	if err != nil {
		return nil, err
	}
	return &paginate{b}, nil
}

func (p *paginate) Render(ctx context.Context, c *Context) (string, error) {
	return p.renderBody(ctx, c)
}

// schema emits its body verbatim as a JSON script block.
type schema struct {
	block
}

func ParseSchema(s *token.Stream, open token.Token) (Tag, error) {
	b, err := scan(s, open)
	if err != nil {
		return nil, err
	}
	return &schema{b}, nil
}

func (sc *schema) Render(context.Context, *Context) (string, error) {
	return schemaOpen + sc.text() + schemaClose, nil
}

// javascript emits its body verbatim as a script block.
type javascript struct {
	block
}

func ParseJavascript(s *token.Stream, open token.Token) (Tag, error) {
	b, err := scan(s, open)
	if err != nil {
		return nil, err
	}
	return &javascript{b}, nil
}

func (js *javascript) Render(context.Context, *Context) (string, error) {
	return "<script>" + js.text() + "</script>", nil
}
