// Package partials finds references from one pattern template to another.
//
// A partial reference has the shape
//
//	{{> name[:modifier][(key: value, ...)] }}
//
// where the optional modifier selects a style variant of the referenced pattern
// and the optional parameter list injects data into it. List item references
// ({{# listItems.three }}) expand a repeating list-item template.
//
// Matchers only discover references; resolving them to templates is left to the
// caller.
package partials

import (
	"regexp"
	"strings"
)

// Kind selects which reference pattern a matcher looks for.
type Kind int

const (
	// Partial matches any partial reference.
	Partial Kind = iota
	// StyleModified matches partial references carrying a style modifier.
	StyleModified
	// Parameterized matches partial references carrying a parameter list.
	Parameterized
	// ListItem matches list item references.
	ListItem
)

// Kinds lists every matcher kind.
var Kinds = []Kind{Partial, StyleModified, Parameterized, ListItem}

func (k Kind) String() string {
	switch k {
	case Partial:
		return "partial"
	case StyleModified:
		return "style-modified"
	case Parameterized:
		return "parameterized"
	case ListItem:
		return "list-item"
	default:
		return "unknown"
	}
}

var (
	partialRE       = regexp.MustCompile(`{{>( )?([\w\-./~]+)(?::[A-Za-z0-9\-_|]+)?(?:(?:| )\(.*?\))?( )?}}`)
	styleModifiedRE = regexp.MustCompile(`{{>( )?([\w\-./~]+)(:[A-Za-z0-9\-_|]+)(?:(?:| )\(.*?\))?( )?}}`)
	parameterizedRE = regexp.MustCompile(`{{>( )?([\w\-./~]+)(?::[A-Za-z0-9\-_|]+)?(?:| )\(.*?\)( )?}}`)
	listItemRE      = regexp.MustCompile(`({{#( )?)(list(?:I|i)tems\.)(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)( )?}}`)

	// referenceRE splits a single partial reference into its parts.
	referenceRE = regexp.MustCompile(`^{{>\s?([\w\-./~]+)(?::([A-Za-z0-9\-_|]+))?(?:\s?\((.*?)\))?\s?}}$`)
)

func (k Kind) pattern() *regexp.Regexp {
	switch k {
	case Partial:
		return partialRE
	case StyleModified:
		return styleModifiedRE
	case Parameterized:
		return parameterizedRE
	case ListItem:
		return listItemRE
	default:
		return nil
	}
}

// Templater is implemented by values that carry template source, such as a
// loaded pattern.
type Templater interface {
	TemplateText() string
}

// Find returns every raw reference of kind k in src, in source order.
// It returns nil when there is none.
func Find(k Kind, src string) []string {
	re := k.pattern()
	if re == nil || src == "" {
		return nil
	}
	return re.FindAllString(src, -1)
}

// FindIn is Find over the source carried by t. A nil t has no references.
func FindIn(k Kind, t Templater) []string {
	if t == nil {
		return nil
	}
	return Find(k, t.TemplateText())
}

// Name extracts the bare pattern name from a single raw partial reference.
// It returns "" if match is not a partial reference.
func Name(match string) string {
	m := partialRE.FindStringSubmatch(match)
	if m == nil {
		return ""
	}
	return m[2]
}

// NameLegacy extracts the bare pattern name by stripping the reference markers,
// the parameter list and the style modifier in turn. It tolerates references
// that Name does not match, such as ones with irregular spacing.
func NameLegacy(match string) string {
	name := strings.NewReplacer(
		"{{> ", "",
		" }}", "",
		"{{>", "",
		"}}", "",
	).Replace(match)

	if i := strings.Index(name, "("); i > 0 {
		name = name[:i]
	}
	name = strings.Split(name, ":")[0]

	return strings.TrimSpace(name)
}
