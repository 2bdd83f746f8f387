package search

import (
	"context"
	"testing"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, records ...entity.FeatureRecord) *Engine {
	t.Helper()
	factory := memory.NewRepositoryFactory(memory.NewStore())
	repo := factory.NewUnitOfWork(context.Background()).FeatureRecordRepository()
	for i := range records {
		require.NoError(t, repo.Create(context.Background(), &records[i]))
	}
	return NewEngine(factory, DefaultSynonyms())
}

func descriptions(records []*entity.FeatureRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Description)
	}
	return out
}

func TestSearchUsesSynonymFamily(t *testing.T) {
	e := newEngine(t,
		entity.FeatureRecord{SystemName: "Facebook", Description: "login issue on android"},
		entity.FeatureRecord{SystemName: "Facebook", Description: "a bug in the feed"},
		entity.FeatureRecord{SystemName: "Twitter", Description: "dark mode"},
	)

	got, err := e.Search(context.Background(), "bug", 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"login issue on android", "a bug in the feed"}, descriptions(got))

	n, err := e.Count(context.Background(), "bugs")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSearchFallsBackToLiteralTerm(t *testing.T) {
	// "foods" expands to a family that does not contain "food" itself
	e := newEngine(t,
		entity.FeatureRecord{SystemName: "Grab", Description: "seafood menu"},
	)

	res, err := e.Page(context.Background(), "food", 10, 0)
	require.NoError(t, err)
	assert.True(t, res.Plan.Fallback)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, []string{"seafood menu"}, descriptions(res.Records))
}

func TestSearchEmptyTermListsEverythingNewestFirst(t *testing.T) {
	e := newEngine(t,
		entity.FeatureRecord{Description: "old"},
		entity.FeatureRecord{Description: "new"},
	)

	got, err := e.Search(context.Background(), "", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, descriptions(got))

	n, err := e.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSearchWithFieldFilter(t *testing.T) {
	e := newEngine(t,
		entity.FeatureRecord{SystemName: "Facebook", Description: "bug one"},
		entity.FeatureRecord{SystemName: "Twitter", Description: "bug two"},
	)

	got, err := e.Search(context.Background(), "/sys:Twitter bug", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"bug two"}, descriptions(got))
}

func TestSearchNoMatchIsEmpty(t *testing.T) {
	e := newEngine(t, entity.FeatureRecord{Description: "something"})

	res, err := e.Page(context.Background(), "zebra", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, int64(0), res.Total)
}

func TestSearchNegativePagingIsClamped(t *testing.T) {
	e := newEngine(t,
		entity.FeatureRecord{Description: "old"},
		entity.FeatureRecord{Description: "new"},
	)

	var got []*entity.FeatureRecord
	require.NotPanics(t, func() {
		var err error
		got, err = e.Search(context.Background(), "", 10, -1)
		require.NoError(t, err)
	})
	assert.Equal(t, []string{"new", "old"}, descriptions(got))

	res, err := e.Page(context.Background(), "", -5, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Records, 2)
}
