package search

import "strings"

// Normalize lowercases, trims and strips simple plural endings:
// "...ies" -> "...y", "...es" -> "...", trailing "s" -> "".
func Normalize(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	switch {
	case strings.HasSuffix(term, "ies"):
		return strings.TrimSuffix(term, "ies") + "y"
	case strings.HasSuffix(term, "es"):
		return strings.TrimSuffix(term, "es")
	case strings.HasSuffix(term, "s"):
		return strings.TrimSuffix(term, "s")
	}
	return term
}

// Expand returns the synonym family of the normalized term, or just the
// normalized term when the dictionary has no entry. When the primary plural
// rule misses ("merges" -> "merg"), dropping only the final "s" and the
// unstripped word are tried before giving up.
func (s Synonyms) Expand(term string) []string {
	normalized := Normalize(term)
	if normalized == "" {
		return nil
	}

	lowered := strings.ToLower(strings.TrimSpace(term))
	candidates := []string{normalized, strings.TrimSuffix(lowered, "s"), lowered}
	for _, c := range candidates {
		if family, ok := s[c]; ok {
			out := make([]string, len(family))
			copy(out, family)
			return out
		}
	}
	return []string{normalized}
}
