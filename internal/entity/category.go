// FILE: internal/entity/category.go
// Closed set of reference dimensions of a feature record
package entity

import "fmt"

// Category identifies one of the five reference dictionaries
type Category string

const (
	CategorySystemName Category = "system_name"
	CategoryModule     Category = "module"
	CategoryFeature    Category = "feature"
	CategoryClient     Category = "client"
	CategorySource     Category = "source"
)

// Categories lists every category in record field order
var Categories = []Category{
	CategorySystemName,
	CategoryModule,
	CategoryFeature,
	CategoryClient,
	CategorySource,
}

// ParseCategory converts a field name (system_name, module, ...) to a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategorySystemName, CategoryModule, CategoryFeature, CategoryClient, CategorySource:
		return true
	}
	return false
}

// TableName is the reference table backing the category
func (c Category) TableName() string {
	return string(c) + "s"
}

// Column is the denormalized name column on feature_records
func (c Category) Column() string {
	return string(c)
}

// IDColumn is the advisory surrogate id column on feature_records
func (c Category) IDColumn() string {
	return string(c) + "_id"
}

func (c Category) String() string {
	return string(c)
}
