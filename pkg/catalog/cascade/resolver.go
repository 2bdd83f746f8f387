// Package cascade computes the valid options of one category given the values
// already chosen for its siblings, for progressive dropdown disclosure.
package cascade

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/repository/unitofwork"
)

type Resolver struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewResolver(uowFactory unitofwork.RepositoryFactory) *Resolver {
	return &Resolver{uowFactory: uowFactory}
}

// Resolve returns the sorted distinct target values among records matching every
// non-empty constraint exactly. Unset constraints mean "any". q, when set,
// narrows the result by case-insensitive substring. No match yields an empty slice.
func (r *Resolver) Resolve(ctx context.Context, target entity.Category, constraints map[entity.Category]string, q string) ([]string, error) {
	if !target.Valid() {
		v := apperror.NewValidationError()
		v.Add("category", fmt.Sprintf("Unknown category '%s'", target))
		return nil, v
	}

	filters := make(map[entity.Category]string, len(constraints))
	for category, value := range constraints {
		if !category.Valid() || strings.TrimSpace(value) == "" {
			continue
		}
		filters[category] = value
	}

	values, err := r.uowFactory.NewUnitOfWork(ctx).FeatureRecordRepository().DistinctValues(ctx, target, filters)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q))
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(v), needle) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}
