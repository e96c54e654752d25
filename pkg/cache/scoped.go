package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "custody:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(formHash, catalogHash string) string {
	return k.prefix + k.inner.PlanKey(formHash, catalogHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(formHash, catalogHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(formHash, catalogHash, opts)
}
