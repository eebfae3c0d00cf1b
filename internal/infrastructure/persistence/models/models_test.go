package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/herd"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "cattle", CattleModel{}.TableName())
	assert.Equal(t, "crop_expenses", ExpenseModel{}.TableName())
	assert.Equal(t, "crop_expense_fields", ExpenseFieldModel{}.TableName())
	assert.Equal(t, "landlord_ledger", LedgerEntryModel{}.TableName())
	assert.Len(t, All(), 18)
}

func TestCattleModel_DenormalisesDamTag(t *testing.T) {
	cow, err := herd.NewCattle(herd.NewCattleParams{
		TagNumber: "c-12",
		Sex:       herd.SexCow,
		Dam:       herd.ParentRef{TagNumber: "A-1"},
	})
	require.NoError(t, err)

	m := CattleModelFromDomain(cow)
	assert.Equal(t, "A-1", m.DamTag)

	back := m.ToDomain()
	assert.Equal(t, cow.TagNumber, back.TagNumber)
	assert.Equal(t, cow.Version, back.Version)
	assert.Equal(t, cow.ID, back.ID)
}

func TestInvoiceModel_CopiesCustomerName(t *testing.T) {
	inv := &finance.Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     "INV-2024-0001",
		Customer:          finance.Customer{Name: "Grain Co"},
		Total:             decimal.NewFromInt(100),
	}
	m := InvoiceModelFromDomain(inv)
	assert.Equal(t, "Grain Co", m.CustomerName)
	assert.True(t, m.ToDomain().Total.Equal(decimal.NewFromInt(100)))
}

func TestExpenseFieldRows(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	e := &cropping.Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Year:              2024,
		Date:              time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Fields: cropping.FieldAllocations{
			{FieldID: a, Acres: decimal.NewFromInt(80)},
			{FieldID: b, Acres: decimal.NewFromInt(40)},
		},
	}
	rows := ExpenseFieldRows(e)
	require.Len(t, rows, 2)
	assert.Equal(t, e.ID, rows[0].ExpenseID)
	assert.Equal(t, b, rows[1].FieldID)
	assert.Equal(t, 2024, rows[1].Year)
}
