package unitofwork

import (
	"feature-catalog-be/internal/repository/contract"
)

// UnitOfWork hands out repositories bound to one request's database handle.
// Multi-statement atomicity lives inside the repositories (see ReferenceRepository.Insert).
type UnitOfWork interface {
	FeatureRecordRepository() contract.FeatureRecordRepository
	ReferenceRepository() contract.ReferenceRepository
}
