package persistence

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/smartstore/backend/internal/domain/shared"
)

// allowed sort columns, shared by every list endpoint
var sortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"total":      true,
	"status":     true,
}

// applyFilter applies pagination, ordering and equality filters to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	orderBy := filter.OrderBy
	if !sortColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, dir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// applyCountFilter applies only the equality filters, for Count queries
func applyCountFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}
	return query
}
