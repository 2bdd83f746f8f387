package memory

import (
	"context"
	"testing"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepos() (*referenceRepository, *featureRecordRepository) {
	s := NewStore()
	return &referenceRepository{store: s}, &featureRecordRepository{store: s}
}

func TestReferenceInsertRejectsSecondActiveName(t *testing.T) {
	ctx := context.Background()
	refs, _ := newRepos()

	first, err := refs.Insert(ctx, entity.CategoryClient, "NewCo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Id)

	_, err = refs.Insert(ctx, entity.CategoryClient, "NewCo")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	other, err := refs.Insert(ctx, entity.CategoryModule, "NewCo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.Id, "counters are per category")
}

func TestReferenceRenameIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	refs, _ := newRepos()

	_, err := refs.Insert(ctx, entity.CategoryModule, "A")
	require.NoError(t, err)

	ok, err := refs.RenameActive(ctx, entity.CategoryModule, "A", "B")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = refs.RenameActive(ctx, entity.CategoryModule, "A", "C")
	require.NoError(t, err)
	assert.False(t, ok, "second rename of a vanished row must not overwrite")

	_, err = refs.Insert(ctx, entity.CategoryModule, "D")
	require.NoError(t, err)
	_, err = refs.RenameActive(ctx, entity.CategoryModule, "D", "B")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestDeactivateIfUnreferencedChecksRecords(t *testing.T) {
	ctx := context.Background()
	refs, records := newRepos()

	_, err := refs.Insert(ctx, entity.CategoryClient, "XYZ Corp")
	require.NoError(t, err)
	rec := &entity.FeatureRecord{Client: "XYZ Corp"}
	require.NoError(t, records.Create(ctx, rec))

	retired, err := refs.DeactivateIfUnreferenced(ctx, entity.CategoryClient, "XYZ Corp")
	require.NoError(t, err)
	assert.False(t, retired)

	require.NoError(t, records.Delete(ctx, rec.Id))
	retired, err = refs.DeactivateIfUnreferenced(ctx, entity.CategoryClient, "XYZ Corp")
	require.NoError(t, err)
	assert.True(t, retired)

	names, err := refs.ListActiveNames(ctx, entity.CategoryClient)
	require.NoError(t, err)
	assert.Empty(t, names)

	purged, err := refs.PurgeInactive(ctx, entity.CategoryClient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestRecordListOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	_, records := newRepos()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, records.Create(ctx, &entity.FeatureRecord{SystemName: "S", Feature: name}))
	}

	page, err := records.List(ctx, entity.RecordQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "third", page[0].Feature)
	assert.Equal(t, "second", page[1].Feature)

	rest, err := records.List(ctx, entity.RecordQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first", rest[0].Feature)

	n, err := records.Count(ctx, entity.RecordQuery{Terms: []string{"SEC"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	err = records.Delete(ctx, rest[0].Id)
	require.NoError(t, err)
	assert.True(t, apperror.IsNotFound(records.Delete(ctx, rest[0].Id)))
}

func TestRecordListIgnoresNegativeOffset(t *testing.T) {
	ctx := context.Background()
	_, records := newRepos()
	require.NoError(t, records.Create(ctx, &entity.FeatureRecord{SystemName: "S", Feature: "only"}))

	var page []*entity.FeatureRecord
	require.NotPanics(t, func() {
		var err error
		page, err = records.List(ctx, entity.RecordQuery{Limit: 10, Offset: -1})
		require.NoError(t, err)
	})
	require.Len(t, page, 1)
	assert.Equal(t, "only", page[0].Feature)
}

func TestUpdateRefIdsTouchesOnlyIdColumns(t *testing.T) {
	ctx := context.Background()
	_, records := newRepos()
	rec := &entity.FeatureRecord{SystemName: "S", Feature: "F", Description: "before"}
	require.NoError(t, records.Create(ctx, rec))

	changed := *rec
	changed.Description = "after"
	require.NoError(t, records.Update(ctx, &changed))

	id := int64(7)
	require.NoError(t, records.UpdateRefIds(ctx, rec.Id, map[entity.Category]*int64{entity.CategoryFeature: &id}))
	id = 9

	got, err := records.FindByID(ctx, rec.Id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Description)
	require.NotNil(t, got.FeatureId)
	assert.Equal(t, int64(7), *got.FeatureId)
	assert.Nil(t, got.SystemNameId)

	err = records.UpdateRefIds(ctx, uuid.New(), map[entity.Category]*int64{entity.CategoryFeature: &id})
	assert.True(t, apperror.IsNotFound(err))
}
