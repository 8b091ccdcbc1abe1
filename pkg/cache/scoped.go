package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// build version so entries written by an older encoding are never read back.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlacementKey implements Keyer.
func (k *ScopedKeyer) PlacementKey(fingerprint string, quality int) string {
	return k.prefix + k.inner.PlacementKey(fingerprint, quality)
}
