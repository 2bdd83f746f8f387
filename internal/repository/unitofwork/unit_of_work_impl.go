package unitofwork

import (
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
}

// NewUnitOfWork expects db already scoped with WithContext
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

func (u *UnitOfWorkImpl) FeatureRecordRepository() contract.FeatureRecordRepository {
	return implementation.NewFeatureRecordRepository(u.db)
}

func (u *UnitOfWorkImpl) ReferenceRepository() contract.ReferenceRepository {
	return implementation.NewReferenceRepository(u.db)
}
