package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a whitelisted ORDER BY expression, falling back to created_at DESC
func orderClause(orderBy, orderDir string, allowed map[string]bool) string {
	field := ValidateSortField(orderBy, allowed, "")
	if field == "" {
		return "created_at DESC"
	}
	return field + " " + ValidateSortOrder(orderDir)
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"order_number":           true,
	"order_date":             true,
	"expected_delivery_date": true,
	"supplier_id":            true,
	"supplier_name":          true,
	"status":                 true,
	"submitted_at":           true,
	"approved_at":            true,
	"sent_at":                true,
	"received_at":            true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"status":       true,
	"rating":       true,
	"is_preferred": true,
	"credit_limit": true,
}

// PriceListSortFields contains allowed sort fields for supplier price lists
var PriceListSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"supplier_id":    true,
	"effective_from": true,
	"effective_to":   true,
	"is_active":      true,
}
