package search

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_synonyms.yaml
var defaultSynonymsYAML []byte

// Synonyms maps a normalized word to its family of related words
type Synonyms map[string][]string

// ParseSynonyms reads a YAML word -> family mapping. Keys are lowercased and
// trimmed; empty families are rejected so a typo cannot silently hide a word.
func ParseSynonyms(data []byte) (Synonyms, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse synonyms: %w", err)
	}
	out := make(Synonyms, len(raw))
	for word, family := range raw {
		key := strings.ToLower(strings.TrimSpace(word))
		if key == "" {
			continue
		}
		cleaned := make([]string, 0, len(family))
		for _, f := range family {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				cleaned = append(cleaned, f)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("parse synonyms: empty family for %q", word)
		}
		out[key] = cleaned
	}
	return out, nil
}

// LoadSynonyms reads the dictionary from path, or the built-in one when path is empty
func LoadSynonyms(path string) (Synonyms, error) {
	if path == "" {
		return DefaultSynonyms(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}
	return ParseSynonyms(data)
}

// DefaultSynonyms is the built-in dictionary
func DefaultSynonyms() Synonyms {
	s, err := ParseSynonyms(defaultSynonymsYAML)
	if err != nil {
		panic(err)
	}
	return s
}
