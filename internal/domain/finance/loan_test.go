package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoan(t *testing.T, amount int64, rate string, payment int64, freq PaymentFrequency) *Loan {
	t.Helper()
	loan, err := NewLoan(NewLoanParams{
		LoanNumber:       "FCS-1001",
		Lender:           "Farm Credit",
		LoanType:         LoanTypeEquipment,
		Entity:           "M77 AG",
		OriginalAmount:   decimal.NewFromInt(amount),
		InterestRate:     decimal.RequireFromString(rate),
		PaymentAmount:    decimal.NewFromInt(payment),
		PaymentFrequency: freq,
		OriginationDate:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return loan
}

func TestLoan_AmortisesToPaidOff(t *testing.T) {
	loan := newTestLoan(t, 24000, "0", 2000, FrequencyMonthly)
	principal := decimal.NewFromInt(2000)
	interest := decimal.Zero

	for m := 1; m <= 12; m++ {
		_, err := loan.RecordPayment(LoanPaymentInput{
			Amount:    decimal.NewFromInt(2000),
			Principal: &principal,
			Interest:  &interest,
			PaidOn:    time.Date(2026, time.Month(m), 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err, "payment %d", m)
	}

	assert.True(t, loan.CurrentBalance.IsZero())
	assert.Equal(t, LoanStatusPaidOff, loan.Status)
	assert.True(t, loan.YTDPrincipalPaid.Equal(decimal.NewFromInt(24000)))
	assert.Equal(t, 2026, loan.YTDYear)
	require.NotNil(t, loan.PaidOffAt)

	_, err := loan.RecordPayment(LoanPaymentInput{Amount: decimal.NewFromInt(2000), PaidOn: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)})
	require.Error(t, err)
	assert.True(t, shared.IsValidationError(err))
	assert.Equal(t, LoanStatusPaidOff, loan.Status)
	assert.Len(t, loan.Payments, 12)
}

func TestLoan_DerivedInterestSplit(t *testing.T) {
	loan := newTestLoan(t, 120000, "6", 3000, FrequencyMonthly)

	payment, err := loan.RecordPayment(LoanPaymentInput{Amount: decimal.NewFromInt(3000), PaidOn: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	// 120000 * 6% / 12 = 600
	assert.True(t, payment.Interest.Equal(decimal.NewFromInt(600)), payment.Interest.String())
	assert.True(t, payment.Principal.Equal(decimal.NewFromInt(2400)))
	assert.True(t, loan.CurrentBalance.Equal(decimal.NewFromInt(117600)))
	assert.True(t, loan.YTDInterestPaid.Equal(decimal.NewFromInt(600)))
}

func TestLoan_RejectsInvalidPayments(t *testing.T) {
	loan := newTestLoan(t, 1000, "0", 100, FrequencyMonthly)

	_, err := loan.RecordPayment(LoanPaymentInput{Amount: decimal.Zero})
	assert.True(t, shared.IsValidationError(err))

	_, err = loan.RecordPayment(LoanPaymentInput{Amount: decimal.NewFromInt(1500)})
	assert.True(t, shared.IsValidationError(err))

	p := decimal.NewFromInt(50)
	i := decimal.NewFromInt(10)
	_, err = loan.RecordPayment(LoanPaymentInput{Amount: decimal.NewFromInt(100), Principal: &p, Interest: &i})
	assert.True(t, shared.IsValidationError(err))

	assert.True(t, loan.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, loan.Payments)
}

func TestLoan_YTDResetsOnNewYear(t *testing.T) {
	loan := newTestLoan(t, 10000, "0", 1000, FrequencyAnnual)

	_, err := loan.RecordPayment(LoanPaymentInput{Amount: decimal.NewFromInt(1000), PaidOn: time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = loan.RecordPayment(LoanPaymentInput{Amount: decimal.NewFromInt(500), PaidOn: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, 2026, loan.YTDYear)
	assert.True(t, loan.YTDPrincipalPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, loan.CurrentBalance.Equal(decimal.NewFromInt(8500)))
}

func TestLoan_BackdatedPaymentKeepsYTD(t *testing.T) {
	loan := newTestLoan(t, 10000, "0", 1000, FrequencyMonthly)
	for m := 1; m <= 3; m++ {
		_, err := loan.RecordPayment(LoanPaymentInput{
			Amount: decimal.NewFromInt(1000),
			PaidOn: time.Date(2026, time.Month(m), 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	// a late December check posted after the year turned
	_, err := loan.RecordPayment(LoanPaymentInput{
		Amount: decimal.NewFromInt(1000),
		PaidOn: time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 2026, loan.YTDYear)
	assert.True(t, loan.YTDPrincipalPaid.Equal(decimal.NewFromInt(3000)))
	assert.True(t, loan.CurrentBalance.Equal(decimal.NewFromInt(6000)))
	assert.Len(t, loan.Payments, 4)

	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.True(t, loan.CurrentPortion(asOf).Equal(decimal.NewFromInt(3000)))
}

func TestLoan_AnnualDebtService(t *testing.T) {
	tests := []struct {
		freq PaymentFrequency
		want int64
	}{
		{FrequencyMonthly, 12000},
		{FrequencyQuarterly, 4000},
		{FrequencySemiAnnual, 2000},
		{FrequencyAnnual, 1000},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			loan := newTestLoan(t, 50000, "5", 1000, tt.freq)
			assert.True(t, loan.AnnualDebtService().Equal(decimal.NewFromInt(tt.want)))
		})
	}
}

func TestLoan_CurrentPortionAndLTV(t *testing.T) {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, "0", 1000, FrequencyMonthly)
	loan.YTDPrincipalPaid = decimal.NewFromInt(6000)
	loan.YTDYear = 2026

	far := asOf.AddDate(5, 0, 0)
	loan.MaturityDate = &far
	assert.True(t, loan.CurrentPortion(asOf).Equal(decimal.NewFromInt(6000)))

	near := asOf.AddDate(0, 8, 0)
	loan.MaturityDate = &near
	assert.True(t, loan.MaturesWithin(asOf, 12))
	assert.True(t, loan.CurrentPortion(asOf).Equal(loan.CurrentBalance))
	assert.Equal(t, 8, loan.MonthsToMaturity(asOf))

	assert.Nil(t, loan.LTV())
	loan.Collateral = &Collateral{Type: "equipment", EstimatedValue: decimal.Zero}
	assert.Nil(t, loan.LTV())
	loan.Collateral.EstimatedValue = decimal.NewFromInt(200000)
	require.NotNil(t, loan.LTV())
	assert.True(t, loan.LTV().Equal(decimal.NewFromInt(50)))
}

func TestLoan_Close(t *testing.T) {
	loan := newTestLoan(t, 1000, "0", 100, FrequencyMonthly)
	assert.Error(t, loan.Close(LoanStatusPaidOff, ""))
	require.NoError(t, loan.Close(LoanStatusRefinanced, "rolled into new note"))
	assert.Equal(t, LoanStatusRefinanced, loan.Status)
	assert.Error(t, loan.Close(LoanStatusDefaulted, ""))
}

func TestCapitalInvestment_EquityUsesLinkedLoans(t *testing.T) {
	inv, err := NewCapitalInvestment("North quarter", InvestmentLand, "M77 AG", time.Now(), decimal.NewFromInt(400000))
	require.NoError(t, err)
	require.NoError(t, inv.Revalue(decimal.NewFromInt(500000), time.Now(), "appraisal"))

	linked := newTestLoan(t, 300000, "0", 1000, FrequencyAnnual)
	linked.CapitalInvestmentID = &inv.ID
	other := newTestLoan(t, 50000, "0", 1000, FrequencyAnnual)
	otherID := uuid.New()
	other.CapitalInvestmentID = &otherID

	loans := []Loan{*linked, *other}
	assert.Len(t, inv.LinkedLoans(loans), 1)
	assert.True(t, inv.Equity(loans).Equal(decimal.NewFromInt(200000)))
	assert.True(t, inv.AnnualDepreciation().IsZero())
}

func TestCapitalInvestment_StraightLineDepreciation(t *testing.T) {
	barn, err := NewCapitalInvestment("Machine shed", InvestmentBuilding, "M77 AG", time.Now(), decimal.NewFromInt(90000))
	require.NoError(t, err)
	require.NoError(t, barn.AddImprovement("Concrete floor", time.Now(), decimal.NewFromInt(10000)))
	barn.Depreciation.UsefulLifeYears = 20
	barn.Depreciation.SalvageValue = decimal.NewFromInt(20000)

	assert.True(t, barn.CostBasis().Equal(decimal.NewFromInt(100000)))
	assert.True(t, barn.AnnualDepreciation().Equal(decimal.NewFromInt(4000)))
}
