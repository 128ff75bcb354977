// Package respcache caches decoded REST response bodies in memory, keyed by
// request path plus normalized query parameters. Entries carry their own TTL;
// expiry is enforced lazily at read time, so the package never spawns
// background timers on its own.
package respcache

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Store is the contract the HTTP client programs against. A miss is reported
// through the boolean, not an error: the cache is best-effort and must never
// block a request.
type Store interface {
	// Get returns the cached body for the composite key, or false when no
	// unexpired entry exists.
	Get(path string, params map[string]string) (json.RawMessage, bool)

	// Set inserts or overwrites the entry for the composite key, resetting
	// its stored-at time to now. A non-positive ttl keeps the entry until it
	// is invalidated or cleared.
	Set(path string, params map[string]string, value json.RawMessage, ttl time.Duration)

	// Invalidate deletes every entry whose request path contains the given
	// substring and reports how many were removed.
	Invalidate(pathSubstring string) int

	// Clear deletes everything.
	Clear()
}

// Key builds the composite cache key for a request. Parameter order does not
// affect the result: logically identical parameter sets map to the same key.
func Key(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return path + "?" + strings.Join(parts, "&")
}
