// Package templatingengine describes the template engine liquette extends.
// The engine owns variables, loops, conditionals and the standard filters;
// liquette only adds tags and filters through the hooks below.
package templatingengine

// Template is a compiled template.
type Template interface {
	Render(bindings map[string]any) (string, error)
}

// TagContext is what a registered tag sees when the engine reaches it.
type TagContext interface {
	// Bindings returns the variables in scope at the tag, loop variables included.
	Bindings() map[string]any
	TagName() string
	TagArgs() string
}

// TagFunc renders a tag.
type TagFunc func(TagContext) (string, error)

type TemplatingEngine interface {
	ParseTemplate(source string) (Template, error)
	// RegisterTag adds a tag without a body. It must be called before any parse.
	RegisterTag(name string, fn TagFunc)
	// RegisterFilter adds a filter. fn follows the engine's filter conventions.
	RegisterFilter(name string, fn any)
}
