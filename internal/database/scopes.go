package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/albaranes-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy restricts a query to rows created by userID or tagged with company.
// A nil or empty company only matches on the owner.
func OwnedBy(userID uint64, company *string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if company == nil || *company == "" {
			return db.Where("user_id = ?", userID)
		}
		return db.Where("(user_id = ? OR company = ?)", userID, *company)
	}
}

// OwnedByUser restricts a query to rows whose creator is userID, without company fallback.
func OwnedByUser(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// NotDeleted hides soft-deleted rows.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted = ?", false)
	}
}

// Archived keeps only soft-deleted rows.
func Archived() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted = ?", true)
	}
}
