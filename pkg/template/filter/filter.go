// Package filter holds the value filters exposed to liquette templates.
package filter

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultAssetsPath = "/assets/"
	DefaultCurrency   = "$"
)

var nonWordRE = regexp.MustCompile(`\W+`)

// Slug lowercases s, collapses every run of non-word characters into a
// single hyphen and trims leading and trailing hyphens.
func Slug(s string) string {
	s = nonWordRE.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// Handle slugs v. Nil and empty values yield "".
func Handle(v any) any {
	s, ok := text(v)
	if !ok {
		return ""
	}
	return Slug(s)
}

// AssetURL returns a filter prefixing values with path.
func AssetURL(path string) func(any) any {
	return func(v any) any {
		s, ok := text(v)
		if !ok {
			return ""
		}
		return path + s
	}
}

// ImgURL returns the src field of a map value, or the value itself.
func ImgURL(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return v
	}
	src := rv.MapIndex(reflect.ValueOf("src").Convert(rv.Type().Key()))
	if !src.IsValid() {
		return nil
	}
	return src.Interface()
}

// Money returns a filter formatting an amount in cents with symbol.
// Nil and empty values yield ""; non-numeric values are returned unchanged.
func Money(symbol string) func(any) any {
	return func(v any) any {
		s, ok := text(v)
		if !ok {
			return ""
		}
		cents, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return v
		}
		return symbol + strconv.FormatFloat(cents/100, 'f', -1, 64)
	}
}

func text(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case fmt.Stringer:
		s := x.String()
		return s, s != ""
	default:
		return fmt.Sprint(x), true
	}
}
