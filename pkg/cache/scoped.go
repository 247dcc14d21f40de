package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RecordsKey returns the prefixed records key.
func (k *ScopedKeyer) RecordsKey(source string) string {
	return k.prefix + k.inner.RecordsKey(source)
}

// RecordsTag returns the prefixed records tag.
func (k *ScopedKeyer) RecordsTag(source string) string {
	return k.prefix + k.inner.RecordsTag(source)
}
