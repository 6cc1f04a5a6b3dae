// Package liquid implements templatingengine.TemplatingEngine with
// github.com/osteele/liquid.
package liquid

import (
	"github.com/osteele/liquid"
	"github.com/osteele/liquid/render"

	templatingengine "github.com/raphaelreyna/liquette/pkg/template/templating-engine"
)

type _template struct {
	t *liquid.Template
}

func (t *_template) Render(bindings map[string]any) (string, error) {
	out, err := t.t.RenderString(liquid.Bindings(bindings))
	if err != nil {
		return "", err
	}
	return out, nil
}

type TemplatingEngine struct {
	e *liquid.Engine
}

func NewTemplatingEngine() *TemplatingEngine {
	return &TemplatingEngine{e: liquid.NewEngine()}
}

func (te *TemplatingEngine) ParseTemplate(source string) (templatingengine.Template, error) {
	t, err := te.e.ParseString(source)
	if err != nil {
		return nil, err
	}
	return &_template{t}, nil
}

func (te *TemplatingEngine) RegisterTag(name string, fn templatingengine.TagFunc) {
	te.e.RegisterTag(name, func(ctx render.Context) (string, error) {
		return fn(ctx)
	})
}

func (te *TemplatingEngine) RegisterFilter(name string, fn any) {
	te.e.RegisterFilter(name, fn)
}
