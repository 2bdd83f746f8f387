package search

import (
	"strings"

	"feature-catalog-be/internal/entity"
)

// Strategy decides whether a term goes through synonym expansion
type Strategy string

const (
	StrategyLiteral  Strategy = "literal"
	StrategyExpanded Strategy = "expanded"
)

// Query is a raw search string split into exact field filters and free text
type Query struct {
	Filters  map[entity.Category]string
	Text     string
	Strategy Strategy
}

var filterPrefixes = map[string]entity.Category{
	"/sys:":     entity.CategorySystemName,
	"/system:":  entity.CategorySystemName,
	"/mod:":     entity.CategoryModule,
	"/module:":  entity.CategoryModule,
	"/feat:":    entity.CategoryFeature,
	"/feature:": entity.CategoryFeature,
	"/client:":  entity.CategoryClient,
	"/src:":     entity.CategorySource,
	"/source:":  entity.CategorySource,
}

// ParseQuery extracts slash filters from the raw query string.
// Supported: /sys:<v> /mod:<v> /feat:<v> /client:<v> /src:<v> (long forms too).
// Filter values use "_" for spaces, e.g. /client:ABS_CBN. Remaining words are
// the free text. Text wrapped in double quotes is matched literally.
func ParseQuery(raw string) Query {
	q := Query{Filters: make(map[entity.Category]string), Strategy: StrategyExpanded}
	var cleanParts []string

	for _, part := range strings.Fields(raw) {
		matched := false
		lowerPart := strings.ToLower(part)
		for prefix, category := range filterPrefixes {
			if strings.HasPrefix(lowerPart, prefix) {
				value := strings.ReplaceAll(part[len(prefix):], "_", " ")
				if value != "" {
					q.Filters[category] = value
				}
				matched = true
				break
			}
		}
		if !matched {
			cleanParts = append(cleanParts, part)
		}
	}

	text := strings.TrimSpace(strings.Join(cleanParts, " "))
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = strings.TrimSpace(text[1 : len(text)-1])
		q.Strategy = StrategyLiteral
	}
	q.Text = text
	return q
}
