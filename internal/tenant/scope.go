// Package tenant keeps every query inside one hotel company.
package tenant

import "gorm.io/gorm"

const column = "company_id"

// Scope restricts a single-table query to one company's rows.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", companyID)
	}
}

// ScopeTable qualifies the company column with table, for joins where
// company_id would be ambiguous or lives on the joined table.
func ScopeTable(table, companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+"."+column+" = ?", companyID)
	}
}
