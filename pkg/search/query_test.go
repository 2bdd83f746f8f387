package search

import (
	"testing"

	"feature-catalog-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	q := ParseQuery("/sys:Facebook /client:ABS_CBN login bug")
	assert.Equal(t, "Facebook", q.Filters[entity.CategorySystemName])
	assert.Equal(t, "ABS CBN", q.Filters[entity.CategoryClient])
	assert.Equal(t, "login bug", q.Text)
	assert.Equal(t, StrategyExpanded, q.Strategy)

	literal := ParseQuery(`"bug"`)
	assert.Equal(t, "bug", literal.Text)
	assert.Equal(t, StrategyLiteral, literal.Strategy)

	plain := ParseQuery("  ")
	assert.Empty(t, plain.Text)
	assert.Empty(t, plain.Filters)
}
