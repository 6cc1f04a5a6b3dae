// Package template renders liquette templates: Liquid source extended with
// custom block tags and filters.
//
// An Engine is built once from a Config and is safe for concurrent use.
// Custom tags are parsed by liquette itself; everything else is handed to the
// underlying templating engine, with each custom tag occurrence replaced by a
// placeholder tag that calls back into the parsed instance at render time.
package template

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/raphaelreyna/liquette/pkg/log"
	"github.com/raphaelreyna/liquette/pkg/stylesheet"
	"github.com/raphaelreyna/liquette/pkg/template/filter"
	"github.com/raphaelreyna/liquette/pkg/template/tag"
	templatingengine "github.com/raphaelreyna/liquette/pkg/template/templating-engine"
	"github.com/raphaelreyna/liquette/pkg/template/templating-engine/liquid"
	"github.com/raphaelreyna/liquette/pkg/template/token"
)

const (
	// placeholderTag is registered with the underlying engine and stands in
	// for a custom tag occurrence; its argument is the occurrence's index.
	placeholderTag = "liquette_tag"
	// stateKey is the binding under which a render's state travels through
	// the underlying engine.
	stateKey = "__liquette_render"

	inlineName = "inline"
)

// verbatim blocks are passed through to the underlying engine untouched,
// custom tags inside them included.
var verbatim = map[string]string{
	"raw":     "endraw",
	"comment": "endcomment",
}

// Engine parses and renders templates.
type Engine struct {
	conf   Config
	engine templatingengine.TemplatingEngine
	tags   *tag.Registry
	cache  *templateCache
}

// New sets up an engine. conf is validated and completed with defaults; it
// must not be modified afterwards.
func New(conf *Config) (*Engine, error) {
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := Engine{
		conf:   *conf,
		engine: conf.TemplatingEngine,
		tags:   tag.NewRegistry(),
	}
	if e.engine == nil {
		e.engine = liquid.NewTemplatingEngine()
	}

	var err error
	if e.cache, err = newTemplateCache(conf.CacheSize); err != nil {
		return nil, fmt.Errorf("error creating template cache: %w", err)
	}

	if err := e.register(); err != nil {
		return nil, err
	}

	return &e, nil
}

type features struct {
	tags    []string
	filters []string
}

var featureSets = map[FeatureSet]features{
	Full: {
		tags:    []string{"form", "paginate", "schema", "stylesheet", "javascript", "section"},
		filters: []string{"asset_url", "img_url", "handle", "money"},
	},
	Reduced: {
		tags:    []string{"section", "schema"},
		filters: []string{"handle"},
	},
}

func (e *Engine) register() error {
	parsers := map[string]tag.ParseFunc{
		"form":       tag.ParseForm,
		"paginate":   tag.ParsePaginate,
		"schema":     tag.ParseSchema,
		"javascript": tag.ParseJavascript,
		"stylesheet": tag.Stylesheet(stylesheet.Default(e.conf.Compiler)),
		"section": tag.Section(tag.SectionOptions{
			Dirs:      e.conf.SectionDirs,
			Extension: e.conf.Extension,
			Mode:      e.conf.SectionMode,
			NewID:     e.conf.NewID,
		}),
	}
	filters := map[string]any{
		"asset_url": filter.AssetURL(e.conf.AssetsPath),
		"img_url":   filter.ImgURL,
		"handle":    filter.Handle,
		"money":     filter.Money(e.conf.Currency),
	}

	fs := featureSets[e.conf.FeatureSet]
	for _, name := range fs.tags {
		if err := e.tags.Register(name, parsers[name]); err != nil {
			return fmt.Errorf("error registering tag: %w", err)
		}
	}
	for _, name := range fs.filters {
		e.engine.RegisterFilter(name, filters[name])
	}
	e.engine.RegisterTag(placeholderTag, renderPlaceholder)

	return nil
}

// Tags returns the names of the custom tags the engine handles.
func (e *Engine) Tags() []string {
	return e.tags.Names()
}

// SectionDirs returns the directories searched for section variants.
func (e *Engine) SectionDirs() []string {
	return append([]string(nil), e.conf.SectionDirs...)
}

// Template is a parsed template. It may be executed any number of times,
// concurrently.
type Template struct {
	name     string
	engine   *Engine
	tags     []tag.Tag
	compiled templatingengine.Template
}

func (t *Template) Name() string {
	return t.name
}

// Parse parses src. Structural errors in custom tags, such as an unterminated
// block, are returned here.
func (e *Engine) Parse(name, src string) (*Template, error) {
	key := cacheKey(name, src)
	if t, ok := e.cache.Get(key); ok {
		return t, nil
	}

	t, err := e.parse(name, src)
	if err != nil {
		return nil, fmt.Errorf("error parsing template %s: %w", name, err)
	}

	e.cache.Add(key, t)
	return t, nil
}

// ParseFile parses the template stored at path.
func (e *Engine) ParseFile(path string) (*Template, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading template: %w", err)
	}
	return e.Parse(path, string(src))
}

func (e *Engine) parse(name, src string) (*Template, error) {
	var (
		t  = Template{name: name, engine: e}
		sb strings.Builder
		s  = token.Lex(src)
	)

	for tok, ok := s.Next(); ok; tok, ok = s.Next() {
		if tok.Kind != token.Tag {
			sb.WriteString(tok.Raw)
			continue
		}

		if end, found := verbatim[tok.Name]; found {
			body, err := token.ScanBlock(s, tok, end)
			if err != nil {
				return nil, err
			}
			endTok, _ := s.Last()
			sb.WriteString(tok.Raw)
			sb.WriteString(token.Concat(body))
			sb.WriteString(endTok.Raw)
			continue
		}

		parse, found := e.tags.Lookup(tok.Name)
		if !found {
			sb.WriteString(tok.Raw)
			continue
		}

		instance, err := parse(s, tok)
		if err != nil {
			return nil, err
		}
		// Block tags consume their end tag, whose -%} then faces the text
		// following the placeholder. Other tags leave tok as the last token.
		last, _ := s.Last()
		sb.WriteString(placeholder(tok.TrimLeft, last.TrimRight, len(t.tags)))
		t.tags = append(t.tags, instance)
	}

	var err error
	if t.compiled, err = e.engine.ParseTemplate(sb.String()); err != nil {
		return nil, err
	}

	return &t, nil
}

func placeholder(trimLeft, trimRight bool, idx int) string {
	var sb strings.Builder
	sb.WriteString("{%")
	if trimLeft {
		sb.WriteByte('-')
	}
	sb.WriteString(" " + placeholderTag + " " + strconv.Itoa(idx) + " ")
	if trimRight {
		sb.WriteByte('-')
	}
	sb.WriteString("%}")
	return sb.String()
}

// renderState is the per-render environment the placeholder tag needs.
type renderState struct {
	ctx  context.Context
	tmpl *Template
	// err keeps the first custom tag failure as returned by the tag, before
	// the underlying engine wraps it.
	err error
}

// String keeps the state out of template output when a template names its binding.
func (renderState) String() string {
	return ""
}

// Execute renders t against bindings. bindings is not modified.
func (t *Template) Execute(ctx context.Context, bindings map[string]any) (string, error) {
	state := renderState{ctx: ctx, tmpl: t}

	b := make(map[string]any, len(bindings)+1)
	for k, v := range bindings {
		b[k] = v
	}
	b[stateKey] = &state

	out, err := t.compiled.Render(b)
	if state.err != nil {
		return "", state.err
	}
	if err != nil {
		return "", fmt.Errorf("error rendering template %s: %w", t.name, err)
	}

	return out, nil
}

func renderPlaceholder(tc templatingengine.TagContext) (string, error) {
	bindings := tc.Bindings()
	state, ok := bindings[stateKey].(*renderState)
	if !ok {
		return "", errors.New("custom tag rendered outside of a liquette render")
	}

	idx, err := strconv.Atoi(strings.TrimSpace(tc.TagArgs()))
	if err != nil || idx < 0 || idx >= len(state.tmpl.tags) {
		return "", fmt.Errorf("invalid custom tag reference %q", tc.TagArgs())
	}

	var (
		instance = state.tmpl.tags[idx]
		c        = tag.Context{
			Bindings: bindings,
			Renderer: renderer{state.tmpl.engine},
		}
	)

	out, err := instance.Render(state.ctx, &c)
	tagRenders.WithLabelValues(instance.Name(), result(err)).Inc()
	if err != nil {
		err = fmt.Errorf("error rendering %s tag: %w", instance.Name(), err)
		if state.err == nil {
			state.err = err
		}
		return "", err
	}

	return out, nil
}

// renderer serves nested renders requested by tags. Unlike the Engine's own
// render methods it does not log: failures travel up to the outermost render.
type renderer struct {
	e *Engine
}

func (r renderer) RenderString(ctx context.Context, src string, bindings map[string]any) (string, error) {
	t, err := r.e.Parse(inlineName, src)
	if err != nil {
		return "", err
	}
	return t.Execute(ctx, bindings)
}

func (r renderer) RenderFile(ctx context.Context, path string, bindings map[string]any) (string, error) {
	t, err := r.e.ParseFile(path)
	if err != nil {
		return "", err
	}
	return t.Execute(ctx, bindings)
}

// Render parses and renders src. It is an outermost entry point: a failure
// is logged once here and returned.
func (e *Engine) Render(ctx context.Context, src string, bindings map[string]any) (string, error) {
	return e.logged(ctx, inlineName, func() (string, error) {
		return renderer{e}.RenderString(ctx, src, bindings)
	})
}

// RenderFile parses and renders the template stored at path. It is an
// outermost entry point: a failure is logged once here and returned.
func (e *Engine) RenderFile(ctx context.Context, path string, bindings map[string]any) (string, error) {
	return e.logged(ctx, path, func() (string, error) {
		return renderer{e}.RenderFile(ctx, path, bindings)
	})
}

func (e *Engine) logged(ctx context.Context, name string, render func() (string, error)) (string, error) {
	start := time.Now()
	out, err := render()
	elapsed := time.Since(start)

	renderDuration.WithLabelValues(result(err)).Observe(elapsed.Seconds())
	if err != nil {
		log.Error(ctx, "error rendering template", err,
			"template", name,
			"duration", elapsed,
		)
		return "", err
	}

	log.Debug(ctx, "rendered template", nil,
		"template", name,
		"duration", elapsed,
	)
	return out, nil
}
