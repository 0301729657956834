package cache

import "strings"

// ScopedKeyer namespaces the keys of another Keyer so several deployments
// (or several `stringart serve` instances with different defaults) can share
// one Redis database or Mongo collection without reading each other's plans.
//
//	keyer := NewScopedKeyer(nil, "staging")
//	keyer.PlanKey(h, opts) // "staging:plan:…"
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer returns a keyer that prefixes every key of inner with scope
// and a colon. A nil inner means DefaultKeyer; an empty scope returns inner
// unchanged.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	scope = strings.TrimSuffix(strings.TrimSpace(scope), ":")
	if scope == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, scope: scope + ":"}
}

// Scope returns the prefix, including its trailing colon.
func (k *ScopedKeyer) Scope() string { return k.scope }

func (k *ScopedKeyer) PlanKey(targetHash string, opts PlanKeyOpts) string {
	return k.scope + k.inner.PlanKey(targetHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.scope + k.inner.ArtifactKey(planHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
