package tag

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/raphaelreyna/liquette/pkg/template/filter"
	"github.com/raphaelreyna/liquette/pkg/template/token"
)

const (
	schemaOpen  = `<script id="schema" type="application/json">`
	schemaClose = `</script>`
)

var schemaRE = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(schemaOpen) + `(.*?)` + regexp.QuoteMeta(schemaClose))

// SectionMode selects how the section tag renders its variant.
type SectionMode string

const (
	// Wrapped renders the variant with its sidecar data as the whole context
	// and wraps the output in a container built from the variant's schema block.
	Wrapped SectionMode = "wrapped"
	// Direct renders the variant against the current context and returns its
	// output as is.
	Direct SectionMode = "direct"
)

func (m SectionMode) Valid() bool {
	return m == Wrapped || m == Direct
}

// SectionOptions configures the section tag.
type SectionOptions struct {
	// Dirs are searched in order for variant templates and their JSON sidecars.
	Dirs []string
	// Extension is the variant template file extension, without the dot.
	Extension string
	Mode      SectionMode
	// NewID generates the per-render section and block ids. Defaults to NewID.
	NewID func() string
}

func (o SectionOptions) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return NewID()
}

// find returns the first existing file named file in o.Dirs.
func (o SectionOptions) find(file string) (string, bool) {
	for _, dir := range o.Dirs {
		path := filepath.Join(dir, file)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// variantPath resolves a section name to its template file.
func (o SectionOptions) variantPath(name string) (string, error) {
	file := name + "." + strings.TrimPrefix(o.Extension, ".")
	if path, ok := o.find(file); ok {
		return path, nil
	}
	return "", fmt.Errorf("section template %s: %w", file, fs.ErrNotExist)
}

// LoadSectionData reads the JSON sidecar of the named section from the first
// directory that has one. A missing sidecar yields an empty object.
func (o SectionOptions) LoadSectionData(name string) (map[string]any, error) {
	path, ok := o.find(name + ".json")
	if !ok {
		return map[string]any{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading section data: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing section data %s: %w", path, err)
	}
	if m == nil {
		m = map[string]any{}
	}

	return m, nil
}

// StampIDs returns a deep copy of data in which the section object and each
// entry of its blocks list carry a fresh id.
func StampIDs(data map[string]any, newID func() string) map[string]any {
	out, _ := deepCopy(data).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}

	section, ok := out["section"].(map[string]any)
	if !ok {
		return out
	}
	section["id"] = newID()

	blocks, _ := section["blocks"].([]any)
	for _, b := range blocks {
		if blk, ok := b.(map[string]any); ok {
			blk["id"] = newID()
		}
	}

	return out
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = deepCopy(v)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, v := range x {
			s[i] = deepCopy(v)
		}
		return s
	default:
		return v
	}
}

// sectionArg is a key: value pair injected into the section's context.
type sectionArg struct {
	key   string
	value string
}

type section struct {
	open token.Token
	opts SectionOptions
	// nameArg is the raw name argument, quotes included.
	nameArg string
	data    map[string]any
	inject  []sectionArg
}

// Section returns the parser for {% section 'name'[, key: value...] %}.
// The sidecar data of the named section is loaded at parse time.
func Section(opts SectionOptions) ParseFunc {
	return func(_ *token.Stream, open token.Token) (Tag, error) {
		args := splitArgs(open.Args)
		if len(args) == 0 || args[0] == "" {
			return nil, fmt.Errorf("%s: %w: section name", open.Raw, ErrMissingArgument)
		}

		sec := section{
			open:    open,
			opts:    opts,
			nameArg: args[0],
		}

		for _, arg := range args[1:] {
			key, value, found := strings.Cut(arg, ":")
			if !found {
				return nil, fmt.Errorf("%s: malformed argument %q", open.Raw, arg)
			}
			sec.inject = append(sec.inject, sectionArg{
				key:   strings.TrimSpace(key),
				value: strings.TrimSpace(value),
			})
		}

		var err error
		if sec.data, err = opts.LoadSectionData(unquote(sec.nameArg)); err != nil {
			return nil, err
		}

		return &sec, nil
	}
}

func (sec *section) Name() string {
	return sec.open.Name
}

func (sec *section) Render(ctx context.Context, c *Context) (string, error) {
	switch sec.opts.Mode {
	case Direct:
		return sec.renderDirect(ctx, c)
	default:
		return sec.renderWrapped(ctx, c)
	}
}

// injected evaluates the injected arguments against the current bindings.
func (sec *section) injected(bindings map[string]any) map[string]any {
	m := make(map[string]any, len(sec.inject))
	for _, arg := range sec.inject {
		m[arg.key] = literal(arg.value, bindings)
	}
	return m
}

func (sec *section) renderWrapped(ctx context.Context, c *Context) (string, error) {
	name := unquote(sec.nameArg)
	path, err := sec.opts.variantPath(name)
	if err != nil {
		return "", err
	}

	data := StampIDs(sec.data, sec.opts.newID)
	for k, v := range sec.injected(c.Bindings) {
		data[k] = v
	}

	out, err := c.Renderer.RenderFile(ctx, path, data)
	if err != nil {
		return "", fmt.Errorf("error rendering section %s: %w", name, err)
	}

	meta, err := extractSchema(out)
	if err != nil {
		return "", fmt.Errorf("section %s: %w", name, err)
	}

	class := "shopify-section"
	if meta.Class != "" {
		class += " " + meta.Class
	}

	return fmt.Sprintf(`<div id="shopify-section-%s" class="%s">%s</div>`, filter.Slug(meta.Name), class, out), nil
}

func (sec *section) renderDirect(ctx context.Context, c *Context) (string, error) {
	name, err := resolveArg(ctx, c, sec.nameArg)
	if err != nil {
		return "", fmt.Errorf("error resolving section name: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("%s: %w", sec.open.Raw, ErrEmptySectionName)
	}

	path, err := sec.opts.variantPath(name)
	if err != nil {
		return "", err
	}

	// A name computed from the context has its sidecar loaded per render.
	data := sec.data
	if name != unquote(sec.nameArg) {
		if data, err = sec.opts.LoadSectionData(name); err != nil {
			return "", err
		}
	}

	bindings := make(map[string]any, len(c.Bindings))
	for k, v := range c.Bindings {
		bindings[k] = v
	}
	for k, v := range StampIDs(data, sec.opts.newID) {
		bindings[k] = v
	}
	for k, v := range sec.injected(c.Bindings) {
		bindings[k] = v
	}

	out, err := c.Renderer.RenderFile(ctx, path, bindings)
	if err != nil {
		return "", fmt.Errorf("error rendering section %s: %w", name, err)
	}
	return out, nil
}

// SchemaMeta is the part of a section's schema block used to build its container.
type SchemaMeta struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

func extractSchema(out string) (SchemaMeta, error) {
	m := schemaRE.FindStringSubmatch(out)
	if m == nil {
		return SchemaMeta{}, ErrMissingSchema
	}

	var meta SchemaMeta
	if err := json.Unmarshal([]byte(m[1]), &meta); err != nil {
		return SchemaMeta{}, fmt.Errorf("error parsing schema block: %w", err)
	}
	return meta, nil
}

// literal evaluates an injected argument value: a quoted string, a number,
// a boolean, or a dotted variable path into bindings.
func literal(v string, bindings map[string]any) any {
	switch {
	case isQuoted(v):
		return unquote(v)
	case v == "true", v == "false":
		return v == "true"
	case v == "nil", v == "null":
		return nil
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		return n
	}
	return lookup(bindings, v)
}

func lookup(bindings map[string]any, path string) any {
	var cur any = bindings
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[part]; !ok {
			return nil
		}
	}
	return cur
}
