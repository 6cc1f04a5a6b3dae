package partials

import (
	"strings"
)

// Reference is a parsed partial reference.
type Reference struct {
	// Raw is the matched text, markers included.
	Raw string `json:"raw"`
	// Name is the referenced pattern name.
	Name string `json:"name"`
	// StyleModifier is the text after the colon, without the colon.
	StyleModifier string `json:"styleModifier,omitempty"`
	// Parameters is the text between the parentheses.
	Parameters string `json:"parameters,omitempty"`
}

// Parse splits a single raw partial reference. ok is false when match is not
// a partial reference. References with irregular spacing fall back to
// NameLegacy and carry only their name.
func Parse(match string) (ref Reference, ok bool) {
	trimmed := strings.TrimSpace(match)
	m := referenceRE.FindStringSubmatch(trimmed)
	if m == nil {
		if !strings.HasPrefix(trimmed, "{{>") || !strings.HasSuffix(trimmed, "}}") {
			return Reference{}, false
		}
		if name := NameLegacy(trimmed); name != "" && !strings.ContainsAny(name, " \t{}") {
			return Reference{Raw: match, Name: name}, true
		}
		return Reference{}, false
	}

	return Reference{
		Raw:           match,
		Name:          m[1],
		StyleModifier: m[2],
		Parameters:    strings.TrimSpace(m[3]),
	}, true
}

// FindReferences parses every partial reference in src.
func FindReferences(src string) []Reference {
	var refs []Reference
	for _, match := range Find(Partial, src) {
		if ref, ok := Parse(match); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Modifiers splits a pipe separated style modifier.
func (r Reference) Modifiers() []string {
	if r.StyleModifier == "" {
		return nil
	}
	return strings.Split(r.StyleModifier, "|")
}

// Params parses the parameter list into key/value pairs. Quoted values are
// unquoted; commas and colons inside quotes are kept.
func (r Reference) Params() map[string]string {
	if r.Parameters == "" {
		return nil
	}

	params := make(map[string]string)
	for _, pair := range splitUnquoted(r.Parameters, ',') {
		kv := splitUnquoted(pair, ':')
		if len(kv) < 2 {
			continue
		}
		key := unquote(strings.TrimSpace(kv[0]))
		if key == "" {
			continue
		}
		// the value may itself contain colons outside of quotes, e.g. a url
		value := strings.TrimSpace(strings.Join(kv[1:], ":"))
		params[key] = unquote(value)
	}

	return params
}

func splitUnquoted(s string, sep rune) []string {
	var (
		parts []string
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
