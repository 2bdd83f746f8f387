// FILE: internal/repository/contract/reference_repository.go
// Repository interface for the five reference dictionaries
package contract

import (
	"context"

	"feature-catalog-be/internal/entity"
)

// ReferenceRepository exposes the atomic primitives the reference store is built from.
// Writes that would leave two active rows with one name return apperror.ErrConflict.
type ReferenceRepository interface {
	FindActiveByName(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error)
	FindLatestInactiveByName(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error)

	// Insert allocates the next id from the category counter and stores an active row
	Insert(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error)
	ActivateByID(ctx context.Context, category entity.Category, id int64) (bool, error)

	// RenameActive renames the active oldName row in place; false when no such row exists anymore
	RenameActive(ctx context.Context, category entity.Category, oldName, newName string) (bool, error)

	// DeactivateIfUnreferenced retires the active row only when no feature record
	// carries the name at the moment of the update
	DeactivateIfUnreferenced(ctx context.Context, category entity.Category, name string) (bool, error)

	ListActiveNames(ctx context.Context, category entity.Category) ([]string, error)
	FindAll(ctx context.Context, category entity.Category, includeInactive bool) ([]*entity.ReferenceEntity, error)
	PurgeInactive(ctx context.Context, category entity.Category) (int64, error)
}
