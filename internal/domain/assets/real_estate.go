package assets

import (
	"strings"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RealEstate is a parcel or building valued for the net-worth statement
type RealEstate struct {
	shared.BaseAggregateRoot
	Name        string
	Entity      string
	Acres       decimal.Decimal
	Address     valueobject.Address
	MarketValue decimal.Decimal
	LoanBalance decimal.Decimal
}

// NewRealEstate validates a parcel
func NewRealEstate(name, entity string, acres decimal.Decimal, address valueobject.Address, marketValue, loanBalance decimal.Decimal) (*RealEstate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("property name is required")
	}
	if acres.IsNegative() || marketValue.IsNegative() || loanBalance.IsNegative() {
		return nil, shared.NewValidationError("values cannot be negative")
	}
	if err := address.Validate(); err != nil {
		return nil, shared.NewValidationError("address: %s", err.Error())
	}
	return &RealEstate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Entity:            strings.TrimSpace(entity),
		Acres:             acres,
		Address:           address,
		MarketValue:       marketValue,
		LoanBalance:       loanBalance,
	}, nil
}

// Equity is market value less the loan balance
func (r *RealEstate) Equity() decimal.Decimal {
	return r.MarketValue.Sub(r.LoanBalance)
}
