package persistence

import (
	"errors"
	"strings"

	"github.com/m77ag/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

func sortFields(extra ...string) map[string]bool {
	fields := make(map[string]bool, len(CommonSortFields)+len(extra))
	for k := range CommonSortFields {
		fields[k] = true
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

var (
	CattleSortFields      = sortFields("tag_number", "name", "breed", "birth_date", "pasture", "status")
	ExpenseSortFields     = sortFields("date", "crop_code", "category", "cost_per_acre", "vendor")
	InvoiceSortFields     = sortFields("invoice_number", "issue_date", "due_date", "total", "balance_due", "status", "customer_name")
	LedgerSortFields      = sortFields("landlord", "year", "due_date", "amount", "status")
	LoanSortFields        = sortFields("lender", "current_balance", "maturity_date", "interest_rate", "status")
	TransactionSortFields = sortFields("date", "amount", "category", "type")
	EquipmentSortFields   = sortFields("name", "category", "year", "entity", "status")
	RealEstateSortFields  = sortFields("name", "entity", "acres", "market_value")
	BookingSortFields     = sortFields("start_date", "hunter_name", "lease_area", "status")
	FieldSortFields       = sortFields("farm", "name", "acres", "entity")
)

// paginate applies a whitelisted ORDER BY and page window. A zero page
// size reads every row.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// search adds a case-insensitive LIKE across the given columns
func search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so the value matches literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// translateError maps GORM sentinel errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// checkLocked turns a zero-row optimistic update into a conflict
func checkLocked(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
