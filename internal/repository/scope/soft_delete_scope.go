package scope

import "gorm.io/gorm"

// ActiveOnly keeps reference rows that are currently in use
func ActiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// InactiveOnly keeps retired reference rows
func InactiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", false)
}
