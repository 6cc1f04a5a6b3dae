package root_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/commands/root"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, err := root.New()
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.liquid", "{% javascript %}x{% endjavascript %}{{ name }}")
	data := writeFile(t, dir, "data.json", `{"name": "A"}`)

	out, err := execute(t, "render", page, "--data", data, "--patterns-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "<script>x</script>A\n", out)
}

func TestRenderToDirectory(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeFile(t, dir, "sections/hero.liquid", `<h1>{{ section.settings.title }}</h1>{% schema %}{"name": "Hero"}{% endschema %}`)
	writeFile(t, dir, "sections/hero.json", `{"section": {"settings": {"title": "Hi"}}}`)
	page := writeFile(t, dir, "index.liquid", "{% section 'hero' %}|{{ n }}")
	data := writeFile(t, dir, "data.json", `[{"n": 1}, {"n": 2}]`)

	_, err := execute(t, "render", page, "--data", data, "--out", outDir, "--patterns-dir", dir)
	require.NoError(t, err)

	for i, n := range []string{"1", "2"} {
		b, err := os.ReadFile(filepath.Join(outDir, "index-"+string(rune('0'+i))+".html"))
		require.NoError(t, err)
		assert.Contains(t, string(b), `<div id="shopify-section-hero" class="shopify-section"><h1>Hi</h1>`)
		assert.Contains(t, string(b), "|"+n)
	}
}

func TestRenderFailure(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.liquid", "{% stylesheet 'less' %}{% endstylesheet %}")

	out, err := execute(t, "render", page, "--patterns-dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "less")
}

func TestReducedFeatureSetFromEnv(t *testing.T) {
	t.Setenv("LIQUETTE_FEATURE_SET", "reduced")
	dir := t.TempDir()
	page := writeFile(t, dir, "page.liquid", "{% javascript %}x{% endjavascript %}")

	_, err := execute(t, "render", page, "--patterns-dir", dir)
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "liquette.yaml", "currency: \"€\"\npatterns_dir: "+dir+"\n")
	page := writeFile(t, dir, "page.liquid", "{{ 250 | money }}")

	out, err := execute(t, "render", page, "--config", conf)
	require.NoError(t, err)
	assert.Equal(t, "€2.5\n", out)

	_, err = execute(t, "render", page, "--config", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestPartials(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page.liquid", "{{> card:dark(title: 'A') }}\n{{#listItems.three}}")

	out, err := execute(t, "partials", page, "--patterns-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, page+"\tcard:dark(title: 'A')\n", out)

	out, err = execute(t, "partials", page, "--kind", "list-item", "--patterns-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, page+"\t{{#listItems.three}}\n", out)

	_, err = execute(t, "partials", page, "--kind", "nope", "--patterns-dir", dir)
	assert.Error(t, err)
}
