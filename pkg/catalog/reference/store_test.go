package reference

import (
	"context"
	"sync"
	"testing"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/internal/repository/memory"
	"feature-catalog-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() (*Store, unitofwork.RepositoryFactory) {
	factory := memory.NewRepositoryFactory(memory.NewStore())
	return NewStore(factory, logger.NewNopLogger()), factory
}

func activeRows(t *testing.T, s *Store, category entity.Category, name string) []*entity.ReferenceEntity {
	t.Helper()
	all, err := s.List(context.Background(), category, false)
	require.NoError(t, err)
	var out []*entity.ReferenceEntity
	for _, e := range all {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func TestEnsureEntityIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	first, err := s.EnsureEntity(ctx, entity.CategorySystemName, "Facebook")
	require.NoError(t, err)
	second, err := s.EnsureEntity(ctx, entity.CategorySystemName, "  Facebook ")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, first, second)
	assert.Len(t, activeRows(t, s, entity.CategorySystemName, "Facebook"), 1)
}

func TestEnsureEntityRejectsBlankName(t *testing.T) {
	s, _ := newStore()

	_, err := s.EnsureEntity(context.Background(), entity.CategoryClient, "   ")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = s.EnsureEntity(context.Background(), entity.Category("planet"), "Mars")
	assert.True(t, apperror.IsValidation(err))
}

func TestEnsureEntityReactivatesRetiredRow(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	id, err := s.EnsureEntity(ctx, entity.CategoryClient, "XYZ Corp")
	require.NoError(t, err)
	retired, err := s.RetireIfUnused(ctx, entity.CategoryClient, "XYZ Corp", 0)
	require.NoError(t, err)
	require.True(t, retired)

	again, err := s.EnsureEntity(ctx, entity.CategoryClient, "XYZ Corp")
	require.NoError(t, err)
	assert.Equal(t, id, again, "reactivation keeps the id")

	other, err := s.EnsureEntity(ctx, entity.CategoryClient, "NewCo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), other)
}

func TestEnsureEntityConcurrentCallersConverge(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	const callers = 16
	ids := make([]int64, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = s.EnsureEntity(ctx, entity.CategoryClient, "NewCo")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Len(t, activeRows(t, s, entity.CategoryClient, "NewCo"), 1)
}

func TestRenameInPlaceKeepsId(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	id, err := s.EnsureEntity(ctx, entity.CategoryModule, "A")
	require.NoError(t, err)

	outcome, err := s.Rename(ctx, entity.CategoryModule, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, RenameInPlace, outcome)

	names, err := s.ListActive(ctx, entity.CategoryModule)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names)

	rows := activeRows(t, s, entity.CategoryModule, "B")
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].Id)
}

func TestRenameOntoExistingNameDoesNotMerge(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	_, err := s.EnsureEntity(ctx, entity.CategoryModule, "A")
	require.NoError(t, err)
	bID, err := s.EnsureEntity(ctx, entity.CategoryModule, "B")
	require.NoError(t, err)

	outcome, err := s.Rename(ctx, entity.CategoryModule, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, RenameCollided, outcome)

	names, err := s.ListActive(ctx, entity.CategoryModule)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names)
	assert.Equal(t, bID, activeRows(t, s, entity.CategoryModule, "B")[0].Id)
}

func TestRenameOfVanishedRowEnsuresNewName(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	outcome, err := s.Rename(ctx, entity.CategoryFeature, "Gone", "Fresh")
	require.NoError(t, err)
	assert.Equal(t, RenameMissing, outcome)
	assert.Len(t, activeRows(t, s, entity.CategoryFeature, "Fresh"), 1)

	outcome, err = s.Rename(ctx, entity.CategoryFeature, "Fresh", "Fresh")
	require.NoError(t, err)
	assert.Equal(t, RenameNoop, outcome)
}

func TestRetireIfUnusedNeverRetiresReferencedName(t *testing.T) {
	ctx := context.Background()
	s, factory := newStore()

	_, err := s.EnsureEntity(ctx, entity.CategoryModule, "A")
	require.NoError(t, err)
	rec := &entity.FeatureRecord{Module: "A"}
	require.NoError(t, factory.NewUnitOfWork(ctx).FeatureRecordRepository().Create(ctx, rec))

	retired, err := s.RetireIfUnused(ctx, entity.CategoryModule, "A", 1)
	require.NoError(t, err)
	assert.False(t, retired)

	// A stale zero count is re-verified against the record store
	retired, err = s.RetireIfUnused(ctx, entity.CategoryModule, "A", 0)
	require.NoError(t, err)
	assert.False(t, retired)

	names, err := s.ListActive(ctx, entity.CategoryModule)
	require.NoError(t, err)
	assert.Contains(t, names, "A")
}

func TestReactivateAndPurge(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	id, err := s.EnsureEntity(ctx, entity.CategorySource, "Media")
	require.NoError(t, err)
	_, err = s.RetireIfUnused(ctx, entity.CategorySource, "Media", 0)
	require.NoError(t, err)

	back, err := s.Reactivate(ctx, entity.CategorySource, "Media")
	require.NoError(t, err)
	assert.Equal(t, id, back)

	_, err = s.Reactivate(ctx, entity.CategorySource, "Nobody")
	assert.True(t, apperror.IsNotFound(err))

	_, err = s.RetireIfUnused(ctx, entity.CategorySource, "Media", 0)
	require.NoError(t, err)
	purged, err := s.PurgeInactive(ctx, entity.CategorySource)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	fresh, err := s.EnsureEntity(ctx, entity.CategorySource, "Media")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh, "purged ids are not reused")
}
