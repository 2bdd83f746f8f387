// Package cache holds answers for dropdown option queries. Entries are
// invalidated wholesale after every catalog mutation.
package cache

import (
	"context"
	"net/url"
	"strings"
)

// OptionsCache is best-effort: a failing backend behaves like a miss.
// Readers capture Generation before computing a value and hand it to Set, so
// an answer computed before a Flush is never stored after it.
type OptionsCache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	// Generation identifies the current flush epoch; false when it cannot be read
	Generation(ctx context.Context) (int64, bool)
	// Set stores values computed during generation gen
	Set(ctx context.Context, gen int64, key string, values []string)
	Flush(ctx context.Context)
}

// Key builds a stable cache key. Each part is escaped so no two part lists share a key.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, "|")
}

// SortedPairs renders a constraint map deterministically, skipping empty values
func SortedPairs(m map[string]string) string {
	values := make(url.Values, len(m))
	for k, v := range m {
		if strings.TrimSpace(v) != "" {
			values.Set(k, v)
		}
	}
	return values.Encode()
}
