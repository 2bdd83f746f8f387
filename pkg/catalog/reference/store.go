// Package reference maintains the five reference dictionaries: surrogate id
// allocation, dedupe on insert, soft delete and in-place rename.
package reference

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/unitofwork"
)

const (
	logModule = "REFERENCE_STORE"

	// defaultMaxAttempts bounds the re-read loop after a lost uniqueness race
	defaultMaxAttempts = 5
)

// RenameOutcome tells the caller what rename actually did
type RenameOutcome int

const (
	RenameNoop     RenameOutcome = iota // names were equal
	RenameInPlace                       // old row now carries the new name, id unchanged
	RenameCollided                      // new name already active; old row left for retirement
	RenameMissing                       // old row was gone; new name ensured instead
)

type Store struct {
	uowFactory  unitofwork.RepositoryFactory
	logger      logger.ILogger
	maxAttempts int
}

func NewStore(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) *Store {
	return &Store{
		uowFactory:  uowFactory,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
}

func (s *Store) repo(ctx context.Context) contract.ReferenceRepository {
	return s.uowFactory.NewUnitOfWork(ctx).ReferenceRepository()
}

func checkCategory(category entity.Category) error {
	if category.Valid() {
		return nil
	}
	v := apperror.NewValidationError()
	v.Add("category", fmt.Sprintf("Unknown category '%s'", category))
	return v
}

func requiredName(category entity.Category, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		v := apperror.NewValidationError()
		v.Add(category.Column(), fmt.Sprintf("Field '%s' is required", category.Column()))
		return "", v
	}
	return name, nil
}

// EnsureEntity returns the id of the active entity named name, reactivating the
// most recent inactive row or minting a new id when none is active.
// Concurrent callers for the same new name converge on one row: the loser of the
// insert race gets ErrConflict from the unique index and re-reads the winner.
func (s *Store) EnsureEntity(ctx context.Context, category entity.Category, name string) (int64, error) {
	if err := checkCategory(category); err != nil {
		return 0, err
	}
	name, err := requiredName(category, name)
	if err != nil {
		return 0, err
	}

	repo := s.repo(ctx)
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		active, err := repo.FindActiveByName(ctx, category, name)
		if err != nil {
			return 0, err
		}
		if active != nil {
			return active.Id, nil
		}

		inactive, err := repo.FindLatestInactiveByName(ctx, category, name)
		if err != nil {
			return 0, err
		}
		if inactive != nil {
			activated, err := repo.ActivateByID(ctx, category, inactive.Id)
			if errors.Is(err, apperror.ErrConflict) {
				continue
			}
			if err != nil {
				return 0, err
			}
			if activated {
				s.logger.Info(logModule, "Reference reactivated", map[string]interface{}{
					"category": category.String(), "name": name, "id": inactive.Id,
				})
				return inactive.Id, nil
			}
			continue
		}

		created, err := repo.Insert(ctx, category, name)
		if errors.Is(err, apperror.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, err
		}
		s.logger.Info(logModule, "Reference created", map[string]interface{}{
			"category": category.String(), "name": name, "id": created.Id,
		})
		return created.Id, nil
	}

	return 0, &apperror.BackingStoreError{
		Op:        "ensure " + category.String(),
		Err:       fmt.Errorf("no stable row for %q after %d attempts", name, s.maxAttempts),
		Transient: true,
	}
}

// Rename moves the active oldName row to newName in place. When newName is
// already active the ids are not merged: the old row is left to be retired
// once unreferenced and the existing newName row is untouched.
func (s *Store) Rename(ctx context.Context, category entity.Category, oldName, newName string) (RenameOutcome, error) {
	if err := checkCategory(category); err != nil {
		return RenameNoop, err
	}
	newName, err := requiredName(category, newName)
	if err != nil {
		return RenameNoop, err
	}
	oldName = strings.TrimSpace(oldName)
	if oldName == newName {
		return RenameNoop, nil
	}

	repo := s.repo(ctx)
	if oldName != "" {
		renamed, err := repo.RenameActive(ctx, category, oldName, newName)
		switch {
		case errors.Is(err, apperror.ErrConflict):
			if _, err := s.retire(ctx, repo, category, oldName); err != nil {
				return RenameCollided, err
			}
			return RenameCollided, nil
		case err != nil:
			return RenameNoop, err
		case renamed:
			s.logger.Info(logModule, "Reference renamed", map[string]interface{}{
				"category": category.String(), "old_name": oldName, "new_name": newName,
			})
			return RenameInPlace, nil
		}
	}

	// Old row already renamed or retired by someone else; never overwrite blindly
	if _, err := s.EnsureEntity(ctx, category, newName); err != nil {
		return RenameMissing, err
	}
	return RenameMissing, nil
}

// RetireIfUnused deactivates the active entity named name when the caller saw
// no remaining references. The store re-verifies against the record store in
// the same statement, so a record written in between keeps the entity alive.
func (s *Store) RetireIfUnused(ctx context.Context, category entity.Category, name string, stillReferenced int64) (bool, error) {
	if err := checkCategory(category); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if stillReferenced > 0 || name == "" {
		return false, nil
	}
	return s.retire(ctx, s.repo(ctx), category, name)
}

func (s *Store) retire(ctx context.Context, repo contract.ReferenceRepository, category entity.Category, name string) (bool, error) {
	retired, err := repo.DeactivateIfUnreferenced(ctx, category, name)
	if err != nil {
		return false, err
	}
	if retired {
		s.logger.Info(logModule, "Reference retired", map[string]interface{}{
			"category": category.String(), "name": name,
		})
	}
	return retired, nil
}

// Reactivate flips the most recent inactive row named name back to active, keeping its id
func (s *Store) Reactivate(ctx context.Context, category entity.Category, name string) (int64, error) {
	if err := checkCategory(category); err != nil {
		return 0, err
	}
	name, err := requiredName(category, name)
	if err != nil {
		return 0, err
	}

	repo := s.repo(ctx)
	if active, err := repo.FindActiveByName(ctx, category, name); err != nil || active != nil {
		if err != nil {
			return 0, err
		}
		return active.Id, nil
	}

	inactive, err := repo.FindLatestInactiveByName(ctx, category, name)
	if err != nil {
		return 0, err
	}
	if inactive == nil {
		return 0, &apperror.NotFoundError{Resource: category.String() + " reference", ID: name}
	}
	if _, err := repo.ActivateByID(ctx, category, inactive.Id); err != nil && !errors.Is(err, apperror.ErrConflict) {
		return 0, err
	}
	// Whoever won, the active row for the name is the answer
	return s.EnsureEntity(ctx, category, name)
}

// ListActive returns the sorted distinct names of active entities
func (s *Store) ListActive(ctx context.Context, category entity.Category) ([]string, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	names, err := s.repo(ctx).ListActiveNames(ctx, category)
	if err != nil {
		return nil, err
	}
	return sortedDistinct(names), nil
}

// List returns entities ordered by id, optionally with inactive history
func (s *Store) List(ctx context.Context, category entity.Category, includeInactive bool) ([]*entity.ReferenceEntity, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	return s.repo(ctx).FindAll(ctx, category, includeInactive)
}

// PurgeInactive hard-deletes already inactive rows. Counters are untouched so ids are never reused.
func (s *Store) PurgeInactive(ctx context.Context, category entity.Category) (int64, error) {
	if err := checkCategory(category); err != nil {
		return 0, err
	}
	purged, err := s.repo(ctx).PurgeInactive(ctx, category)
	if err != nil {
		return 0, err
	}
	s.logger.Info(logModule, "Inactive references purged", map[string]interface{}{
		"category": category.String(), "purged": purged,
	})
	return purged, nil
}

func sortedDistinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
