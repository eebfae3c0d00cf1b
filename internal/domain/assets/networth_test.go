package assets

import (
	"testing"
	"time"

	"github.com/m77ag/backend/internal/domain/cropping"
	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mustEquipment(t *testing.T, name, entity string, value, debt int64) Equipment {
	t.Helper()
	e, err := NewEquipment(NewEquipmentParams{Name: name, Entity: entity, PurchasePrice: d(value), CurrentValue: d(value), LoanBalance: d(debt)})
	require.NoError(t, err)
	return *e
}

func TestEquipment_Lifecycle(t *testing.T) {
	e := mustEquipment(t, "8R 410", "M77 AG", 350000, 120000)
	assert.Equal(t, EquipmentOwned, e.Status)
	assert.Error(t, e.ListForSale(decimal.Zero))
	require.NoError(t, e.ListForSale(d(340000)))
	assert.Equal(t, EquipmentForSale, e.Status)
	assert.True(t, e.Counts())
	require.NoError(t, e.MarkSold())
	assert.False(t, e.Counts())
	assert.Error(t, e.ListForSale(d(1)))

	_, err := NewEquipment(NewEquipmentParams{Name: " "})
	assert.True(t, shared.IsValidationError(err))
}

func TestLineItems_Validate(t *testing.T) {
	adj := NewEntityAdjustments("M77 AG")
	err := adj.Replace(LineItems{{Description: "", Amount: d(1)}}, nil)
	assert.True(t, shared.IsValidationError(err))
	err = adj.Replace(nil, LineItems{{Description: "Note", Amount: d(-5)}})
	assert.True(t, shared.IsValidationError(err))
	require.NoError(t, adj.Replace(LineItems{{Description: "Grain inventory", Amount: d(80000)}}, nil))
	assert.True(t, adj.AdditionalAssets.Total().Equal(d(80000)))
}

func TestSummarizeNetWorth(t *testing.T) {
	entities := shared.NewLegalEntities(shared.DefaultLegalEntities...)

	owned, err := cropping.NewField(cropping.NewFieldParams{Farm: "Home", Name: "North 80", Acres: d(80), MarketValuePerAcre: d(9000)})
	require.NoError(t, err)
	rented, err := cropping.NewField(cropping.NewFieldParams{Farm: "Smith", Name: "East", Acres: d(160), RentType: cropping.RentCashRent, Landlord: "Smith", MarketValuePerAcre: d(8000)})
	require.NoError(t, err)

	land, err := finance.NewCapitalInvestment("Home quarter", finance.InvestmentLand, "M77 AG", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), d(500000))
	require.NoError(t, err)
	loan, err := finance.NewLoan(finance.NewLoanParams{
		Lender:              "Farm Credit",
		LoanType:            finance.LoanTypeRealEstate,
		OriginalAmount:      d(400000),
		PaymentFrequency:    finance.FrequencyAnnual,
		OriginationDate:     time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		CapitalInvestmentID: &land.ID,
	})
	require.NoError(t, err)

	sold := mustEquipment(t, "Old combine", "M77 AG", 50000, 0)
	require.NoError(t, sold.MarkSold())

	adj := NewEntityAdjustments("Kyle & Brandi McConnell")
	require.NoError(t, adj.Replace(LineItems{{Description: "Retirement", Amount: d(150000)}}, LineItems{{Description: "Credit card", Amount: d(5000)}}))

	home, err := NewRealEstate("House", "Kyle & Brandi McConnell", d(5), validAddress(), d(300000), d(200000))
	require.NoError(t, err)

	s := SummarizeNetWorth(NetWorthInputs{
		Entities:       entities,
		FarmlandEntity: "M77 AG",
		Equipment: []Equipment{
			mustEquipment(t, "Tractor", "M77 AG", 200000, 50000),
			mustEquipment(t, "Semi", "McConnell Enterprises", 90000, 30000),
			mustEquipment(t, "Stray", "Somebody Else", 1000, 0),
			sold,
		},
		RealEstate:         []RealEstate{*home},
		Adjustments:        []EntityAdjustments{*adj},
		Fields:             []cropping.Field{*owned, *rented},
		CapitalInvestments: []finance.CapitalInvestment{*land},
		Loans:              []finance.Loan{*loan},
	})

	require.Len(t, s.Entities, 3)
	farm := s.Entities[0]
	assert.Equal(t, "M77 AG", farm.Name)
	assert.True(t, farm.FarmLand.Equal(d(720000)))
	assert.True(t, farm.LandDebt.Equal(d(400000)))
	assert.True(t, farm.TotalAssets.Equal(d(920000)))
	assert.True(t, farm.TotalLiabilities.Equal(d(450000)))
	assert.True(t, farm.NetWorth.Equal(d(470000)))

	family := s.Entities[2]
	assert.True(t, family.TotalAssets.Equal(d(450000)))
	assert.True(t, family.TotalLiabilities.Equal(d(205000)))

	for _, e := range append(s.Entities, s.GrandTotal) {
		assert.True(t, e.TotalAssets.Sub(e.TotalLiabilities).Equal(e.NetWorth), e.Name)
	}
	assert.True(t, s.GrandTotal.TotalAssets.Equal(d(920000+90000+450000)))

	require.NotNil(t, s.Unassigned)
	assert.Equal(t, []string{"equipment: Stray"}, s.Unassigned.UnassignedRecords)
	assert.True(t, s.Unassigned.TotalAssets.Equal(d(1000)))
}

func validAddress() valueobject.Address {
	return valueobject.Address{Street: "1 Ranch Rd", City: "Hays", State: "KS", Zip: "67601"}
}
