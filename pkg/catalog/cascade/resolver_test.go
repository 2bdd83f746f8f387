package cascade

import (
	"context"
	"testing"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, records ...entity.FeatureRecord) *Resolver {
	t.Helper()
	factory := memory.NewRepositoryFactory(memory.NewStore())
	repo := factory.NewUnitOfWork(context.Background()).FeatureRecordRepository()
	for i := range records {
		require.NoError(t, repo.Create(context.Background(), &records[i]))
	}
	return NewResolver(factory)
}

func TestResolve(t *testing.T) {
	r := seed(t,
		entity.FeatureRecord{SystemName: "Facebook", Module: "Messenger", Client: "ABS CBN"},
		entity.FeatureRecord{SystemName: "Facebook", Module: "Marketplace", Client: "GMA"},
		entity.FeatureRecord{SystemName: "Facebook", Module: "Messenger", Client: "GMA"},
		entity.FeatureRecord{SystemName: "Twitter", Module: "Timeline", Client: "ABS CBN"},
		entity.FeatureRecord{SystemName: "Twitter", Module: " ", Client: "GMA"},
	)
	ctx := context.Background()

	tests := []struct {
		name        string
		target      entity.Category
		constraints map[entity.Category]string
		q           string
		want        []string
	}{
		{
			name:        "co-occurring modules only, sorted and distinct",
			target:      entity.CategoryModule,
			constraints: map[entity.Category]string{entity.CategorySystemName: "Facebook"},
			want:        []string{"Marketplace", "Messenger"},
		},
		{
			name:        "unset constraint means any",
			target:      entity.CategoryModule,
			constraints: map[entity.Category]string{entity.CategorySystemName: "", entity.CategoryClient: "ABS CBN"},
			want:        []string{"Messenger", "Timeline"},
		},
		{
			name:        "equality is case sensitive",
			target:      entity.CategoryModule,
			constraints: map[entity.Category]string{entity.CategorySystemName: "facebook"},
			want:        []string{},
		},
		{
			name:   "blank values dropped",
			target: entity.CategoryModule,
			constraints: map[entity.Category]string{
				entity.CategorySystemName: "Twitter",
			},
			want: []string{"Timeline"},
		},
		{
			name:        "type-ahead narrowing",
			target:      entity.CategoryModule,
			constraints: map[entity.Category]string{entity.CategorySystemName: "Facebook"},
			q:           "MESS",
			want:        []string{"Messenger"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, tt.target, tt.constraints, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknownTarget(t *testing.T) {
	r := seed(t)
	_, err := r.Resolve(context.Background(), entity.Category("planet"), nil, "")
	assert.True(t, apperror.IsValidation(err))

	got, err := r.Resolve(context.Background(), entity.CategoryClient, nil, "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
