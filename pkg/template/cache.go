package template

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru"
)

// templateCache holds compiled templates keyed by name and source digest.
// A nil *templateCache caches nothing.
type templateCache struct {
	cache *lru.Cache
}

func newTemplateCache(n int) (*templateCache, error) {
	if n < 0 {
		return nil, nil
	}

	var err error
	tc := &templateCache{}
	if tc.cache, err = lru.New(n); err != nil {
		return nil, err
	}

	return tc, nil
}

func cacheKey(name, src string) string {
	sum := sha256.Sum256([]byte(src))
	return name + "@" + hex.EncodeToString(sum[:])
}

func (tc *templateCache) Get(key string) (*Template, bool) {
	if tc == nil {
		return nil, false
	}
	v, ok := tc.cache.Get(key)
	if !ok {
		return nil, false
	}
	t, ok := v.(*Template)
	return t, ok
}

func (tc *templateCache) Add(key string, t *Template) {
	if tc == nil {
		return
	}
	tc.cache.Add(key, t)
}

func (tc *templateCache) Len() int {
	if tc == nil {
		return 0
	}
	return tc.cache.Len()
}
