// FILE: internal/entity/reference_entity.go
// Domain entity for reference dictionary rows
package entity

import "time"

// ReferenceEntity is a deduplicated, soft-deletable dictionary row of one category.
// At most one active row per (category, name); inactive history is kept.
type ReferenceEntity struct {
	Id        int64
	Category  Category
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
