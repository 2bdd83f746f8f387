package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Companies ", "company"},
		{"Boxes", "box"},
		{"Foods", "food"},
		{"BUG", "bug"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestExpand(t *testing.T) {
	s := DefaultSynonyms()

	assert.Equal(t,
		[]string{"error", "incorrect", "wrong", "invalid", "failed", "issue", "problem", "bug", "fault", "duplicate"},
		s.Expand("Errors"))
	assert.Equal(t, []string{"bug", "error", "issue", "problem", "fault", "incorrect"}, s.Expand("bug"))
	assert.Contains(t, s.Expand("incorrect xml"), "malformed xml")
	assert.Equal(t, []string{"widget"}, s.Expand("Widgets"))
	assert.Nil(t, s.Expand("   "))
}

func TestExpandTriesGentlerPluralForms(t *testing.T) {
	s := DefaultSynonyms()

	// "merges" normalizes to "merg"; dropping only the "s" finds the family
	assert.Contains(t, s.Expand("merges"), "consolidate")
	assert.Contains(t, s.Expand("duplicates"), "clone")
}

func TestExpandReturnsCopy(t *testing.T) {
	s := DefaultSynonyms()
	got := s.Expand("ui")
	got[0] = "mutated"
	assert.Equal(t, "ui", s.Expand("ui")[0])
}

func TestParseSynonyms(t *testing.T) {
	s, err := ParseSynonyms([]byte("Payment:\n  - Payment\n  - billing\n  - ' invoice '\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"payment", "billing", "invoice"}, s["payment"])

	_, err = ParseSynonyms([]byte("payment: []\n"))
	assert.Error(t, err)

	_, err = ParseSynonyms([]byte("payment: [unclosed\n"))
	assert.Error(t, err)
}

func TestLoadSynonymsDefault(t *testing.T) {
	s, err := LoadSynonyms("")
	require.NoError(t, err)
	assert.Len(t, s, 15)

	_, err = LoadSynonyms("/nonexistent/synonyms.yaml")
	assert.Error(t, err)
}
