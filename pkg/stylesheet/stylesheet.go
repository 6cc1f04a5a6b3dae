// Package stylesheet provides the text pipelines applied to stylesheet tag bodies.
package stylesheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphaelreyna/liquette/pkg/compiler"
	"github.com/raphaelreyna/liquette/pkg/compiler/sass"
)

var ErrUnknownProcessor = errors.New("unknown stylesheet processor")

// Pipeline transforms stylesheet source into CSS.
type Pipeline func(ctx context.Context, src string) (string, error)

// Pipelines maps processor keys to pipelines.
type Pipelines map[string]Pipeline

// Lookup returns the pipeline registered under key.
func (p Pipelines) Lookup(key string) (Pipeline, error) {
	if fn, ok := p[key]; ok && fn != nil {
		return fn, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownProcessor, key)
}

// Identity returns src unchanged.
func Identity(_ context.Context, src string) (string, error) {
	return src, nil
}

// Compile returns a pipeline running src through c.
func Compile(c compiler.Compiler, arg ...string) Pipeline {
	return func(ctx context.Context, src string) (string, error) {
		css, err := compiler.Run(ctx, c, src, arg...)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(css, "\n"), nil
	}
}

// Default returns the identity pipeline under the empty key and c under
// "scss" and "sass". A nil c uses the sass CLI.
func Default(c compiler.Compiler) Pipelines {
	if c == nil {
		c = sass.Compiler
	}
	return Pipelines{
		"":     Identity,
		"scss": Compile(c),
		"sass": Compile(c, sass.Indented),
	}
}
