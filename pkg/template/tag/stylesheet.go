package tag

import (
	"context"
	"fmt"

	"github.com/raphaelreyna/liquette/pkg/stylesheet"
	"github.com/raphaelreyna/liquette/pkg/template/token"
)

type stylesheetTag struct {
	block
	processor string
	pipelines stylesheet.Pipelines
}

// Stylesheet returns the parser for {% stylesheet ['processor'] %}…{% endstylesheet %}.
// The processor argument selects one of pipelines at render time.
func Stylesheet(pipelines stylesheet.Pipelines) ParseFunc {
	return func(s *token.Stream, open token.Token) (Tag, error) {
		b, err := scan(s, open)
		if err != nil {
			return nil, err
		}
		return &stylesheetTag{
			block:     b,
			processor: open.Args,
			pipelines: pipelines,
		}, nil
	}
}

func (st *stylesheetTag) Render(ctx context.Context, c *Context) (string, error) {
	key, err := resolveArg(ctx, c, st.processor)
	if err != nil {
		return "", fmt.Errorf("error resolving stylesheet processor: %w", err)
	}

	pipeline, err := st.pipelines.Lookup(key)
	if err != nil {
		return "", err
	}

	body, err := st.renderBody(ctx, c)
	if err != nil {
		return "", err
	}

	css, err := pipeline(ctx, body)
	if err != nil {
		return "", fmt.Errorf("error processing stylesheet with %q: %w", key, err)
	}

	return "<style>" + css + "</style>", nil
}
