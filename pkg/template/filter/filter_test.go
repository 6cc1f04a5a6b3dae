package filter_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raphaelreyna/liquette/pkg/template/filter"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Foo Bar!!":            "foo-bar",
		"  --Hero  Banner-- ":  "hero-banner",
		"Featured_Collection":  "featured_collection",
		"already-a-slug":       "already-a-slug",
		"":                     "",
		"!!!":                  "",
		"Rich Text & Images 2": "rich-text-images-2",
	}
	for in, want := range cases {
		assert.Equal(t, want, filter.Slug(in), in)
	}
}

func TestHandle(t *testing.T) {
	assert.Equal(t, "foo-bar", filter.Handle("Foo Bar!!"))
	assert.Equal(t, "", filter.Handle(nil))
	assert.Equal(t, "", filter.Handle(""))
	assert.Equal(t, "42", filter.Handle(42))
}

func TestMoney(t *testing.T) {
	money := filter.Money(filter.DefaultCurrency)

	assert.Equal(t, "$5", money(500))
	assert.Equal(t, "$5.5", money(550))
	assert.Equal(t, "$19.99", money(1999))
	assert.Equal(t, "$5", money("500"))
	assert.Equal(t, "$5", money(json.Number("500")))
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "", money(nil))
	assert.Equal(t, "", money(""))
	assert.Equal(t, "free", money("free"))

	assert.Equal(t, "€12", filter.Money("€")(1200))
}

func TestAssetURL(t *testing.T) {
	assetURL := filter.AssetURL(filter.DefaultAssetsPath)
	assert.Equal(t, "/assets/theme.css", assetURL("theme.css"))
	assert.Equal(t, "", assetURL(nil))
	assert.Equal(t, "https://cdn/x.js", filter.AssetURL("https://cdn/")("x.js"))
}

func TestImgURL(t *testing.T) {
	assert.Equal(t, "/img/a.png", filter.ImgURL(map[string]any{"src": "/img/a.png", "alt": "a"}))
	assert.Equal(t, "/img/b.png", filter.ImgURL(map[string]string{"src": "/img/b.png"}))
	assert.Nil(t, filter.ImgURL(map[string]any{"alt": "a"}))
	assert.Equal(t, "/img/c.png", filter.ImgURL("/img/c.png"))
	assert.Nil(t, filter.ImgURL(nil))
}
