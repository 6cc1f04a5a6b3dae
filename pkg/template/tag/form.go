package tag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/raphaelreyna/liquette/pkg/template/token"
)

var (
	formClassRE = regexp.MustCompile(`(?:^|[\s,])class:\s*(?:"([^"]*)"|'([^']*)')`)
	formDataRE  = regexp.MustCompile(`(data-[\w-]+):\s*(?:"([^"]*)"|'([^']*)'|([\w.\[\]]+))`)
)

type formAttr struct {
	name  string
	value string
	// variable attributes are evaluated when the form renders
	variable bool
}

type form struct {
	block
	class string
	attrs []formAttr
}

// ParseForm parses {% form [class: "…"] [data-x: "…" | data-x: var]... %}…{% endform %}.
func ParseForm(s *token.Stream, open token.Token) (Tag, error) {
	f := form{}

	if m := formClassRE.FindStringSubmatch(open.Args); m != nil {
		f.class = m[1] + m[2]
	}

	for _, m := range formDataRE.FindAllStringSubmatch(open.Args, -1) {
		attr := formAttr{name: m[1]}
		if m[4] != "" {
			attr.value = m[4]
			attr.variable = true
		} else {
			attr.value = m[2] + m[3]
		}
		f.attrs = append(f.attrs, attr)
	}

	var err error
	if f.block, err = scan(s, open); err != nil {
		return nil, err
	}

	return &f, nil
}

// attributes renders the data attributes. Only variable values go through
// the renderer; literal values are emitted as written.
func (f *form) attributes(ctx context.Context, c *Context) (string, error) {
	var sb strings.Builder
	for _, a := range f.attrs {
		value := a.value
		if a.variable {
			var err error
			if value, err = c.Renderer.RenderString(ctx, "{{ "+a.value+" }}", c.Bindings); err != nil {
				return "", fmt.Errorf("error rendering form attribute %s: %w", a.name, err)
			}
		}
		fmt.Fprintf(&sb, ` %s="%s"`, a.name, value)
	}
	return sb.String(), nil
}

func (f *form) Render(ctx context.Context, c *Context) (string, error) {
	attrs, err := f.attributes(ctx, c)
	if err != nil {
		return "", err
	}

	body, err := f.renderBody(ctx, c)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`<form class="%s"%s>%s</form>`, f.class, attrs, body), nil
}
