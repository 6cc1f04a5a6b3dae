package tag_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelreyna/liquette/pkg/stylesheet"
	"github.com/raphaelreyna/liquette/pkg/template/tag"
	"github.com/raphaelreyna/liquette/pkg/template/token"
)

// echoRenderer returns template text and file contents unrendered.
type echoRenderer struct {
	bindings []map[string]any
}

func (r *echoRenderer) RenderString(_ context.Context, src string, _ map[string]any) (string, error) {
	return src, nil
}

func (r *echoRenderer) RenderFile(_ context.Context, path string, bindings map[string]any) (string, error) {
	r.bindings = append(r.bindings, bindings)
	out, err := os.ReadFile(path)
	return string(out), err
}

func parse(t *testing.T, fn tag.ParseFunc, src string) (tag.Tag, *token.Stream) {
	t.Helper()
	s := token.Lex(src)
	open, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, token.Tag, open.Kind)
	tg, err := fn(s, open)
	require.NoError(t, err)
	return tg, s
}

func render(t *testing.T, tg tag.Tag, r tag.Renderer, bindings map[string]any) string {
	t.Helper()
	out, err := tg.Render(context.Background(), &tag.Context{Bindings: bindings, Renderer: r})
	require.NoError(t, err)
	return out
}

func TestRegistry(t *testing.T) {
	r := tag.NewRegistry()
	require.NoError(t, r.Register("form", tag.ParseForm))
	require.NoError(t, r.Register("javascript", tag.ParseJavascript))

	err := r.Register("form", tag.ParseForm)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tag.ErrDuplicateTag))

	assert.Error(t, r.Register("", tag.ParseForm))
	assert.Error(t, r.Register("nil", nil))

	_, ok := r.Lookup("form")
	assert.True(t, ok)
	_, ok = r.Lookup("Form")
	assert.False(t, ok)

	assert.Equal(t, []string{"form", "javascript"}, r.Names())
}

func TestBlockTagsUnterminated(t *testing.T) {
	parsers := map[string]tag.ParseFunc{
		"form":       tag.ParseForm,
		"paginate":   tag.ParsePaginate,
		"schema":     tag.ParseSchema,
		"javascript": tag.ParseJavascript,
		"stylesheet": tag.Stylesheet(stylesheet.Default(nil)),
	}

	for name, fn := range parsers {
		t.Run(name, func(t *testing.T) {
			s := token.Lex("{% " + name + " %}body{% end" + name + "x %}")
			open, _ := s.Next()
			_, err := fn(s, open)
			require.Error(t, err)
			assert.True(t, errors.Is(err, token.ErrUnterminatedBlock))
			assert.Contains(t, err.Error(), "{% "+name+" %}")
		})
	}
}

func TestJavascriptAndSchemaAreVerbatim(t *testing.T) {
	r := &echoRenderer{}

	js, s := parse(t, tag.ParseJavascript, "{% javascript %}console.log({{ x }}){% endjavascript %}rest")
	assert.Equal(t, "javascript", js.Name())
	assert.Equal(t, "<script>console.log({{ x }})</script>", render(t, js, r, nil))
	assert.Equal(t, 1, s.Len())

	sc, _ := parse(t, tag.ParseSchema, `{% schema %}{"name": "Hero"}{% endschema %}`)
	assert.Equal(t, `<script id="schema" type="application/json">{"name": "Hero"}</script>`, render(t, sc, r, nil))
}

func TestPaginateRendersBody(t *testing.T) {
	p, _ := parse(t, tag.ParsePaginate, "{% paginate collection.products by 4 %}<ul></ul>{% endpaginate %}")
	assert.Equal(t, "<ul></ul>", render(t, p, &echoRenderer{}, nil))
}

func TestFormAttributes(t *testing.T) {
	f, _ := parse(t, tag.ParseForm, `{% form 'product', product, class: "product-form", data-id: product.id, data-kind: 'simple' %}<input>{% endform %}`)
	assert.Equal(t,
		`<form class="product-form" data-id="{{ product.id }}" data-kind="simple"><input></form>`,
		render(t, f, &echoRenderer{}, nil),
	)

	f, _ = parse(t, tag.ParseForm, `{% form %}x{% endform %}`)
	assert.Equal(t, `<form class="">x</form>`, render(t, f, &echoRenderer{}, nil))
}

func TestStylesheetUnknownProcessor(t *testing.T) {
	st, _ := parse(t, tag.Stylesheet(stylesheet.Default(nil)), "{% stylesheet 'less' %}a{}{% endstylesheet %}")
	_, err := st.Render(context.Background(), &tag.Context{Renderer: &echoRenderer{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, stylesheet.ErrUnknownProcessor))
	assert.Contains(t, err.Error(), `"less"`)
}

func TestStylesheetPipeline(t *testing.T) {
	pipelines := stylesheet.Pipelines{
		"":    stylesheet.Identity,
		"up": func(_ context.Context, src string) (string, error) {
			return "/*up*/" + src, nil
		},
	}

	st, _ := parse(t, tag.Stylesheet(pipelines), "{% stylesheet %}a{}{% endstylesheet %}")
	assert.Equal(t, "<style>a{}</style>", render(t, st, &echoRenderer{}, nil))

	st, _ = parse(t, tag.Stylesheet(pipelines), "{% stylesheet 'up' %}a{}{% endstylesheet %}")
	assert.Equal(t, "<style>/*up*/a{}</style>", render(t, st, &echoRenderer{}, nil))

	failing := stylesheet.Pipelines{"x": func(context.Context, string) (string, error) {
		return "", errors.New("compiler exploded")
	}}
	st, _ = parse(t, tag.Stylesheet(failing), "{% stylesheet 'x' %}a{}{% endstylesheet %}")
	_, err := st.Render(context.Background(), &tag.Context{Renderer: &echoRenderer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiler exploded")
}
