package respcache

import (
	"strings"
	"time"
)

// TTLRule binds a path prefix to the lifetime of responses cached under it.
// A zero TTL means "use the policy default".
type TTLRule struct {
	PathPrefix string
	TTL        time.Duration
}

// TTLPolicy resolves cacheability and TTL for request paths from an ordered
// prefix table. Only paths matching a rule are cacheable; the first matching
// rule wins, so more specific prefixes belong before broader ones.
type TTLPolicy struct {
	Rules   []TTLRule
	Default time.Duration
}

// Cacheable reports whether responses for the path should be cached at all.
func (p TTLPolicy) Cacheable(path string) bool {
	for _, r := range p.Rules {
		if strings.HasPrefix(path, r.PathPrefix) {
			return true
		}
	}
	return false
}

// Resolve returns the TTL for the path: the first matching rule's TTL, the
// policy default when the rule leaves it unset, and the default again for
// unmatched paths so callers that cache unconditionally still get a sane
// lifetime.
func (p TTLPolicy) Resolve(path string) time.Duration {
	for _, r := range p.Rules {
		if strings.HasPrefix(path, r.PathPrefix) {
			if r.TTL > 0 {
				return r.TTL
			}
			return p.Default
		}
	}
	return p.Default
}
