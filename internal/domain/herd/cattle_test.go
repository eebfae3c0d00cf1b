package herd

import (
	"testing"
	"time"

	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCow(t *testing.T, tag string) *Cattle {
	t.Helper()
	born := time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC)
	cow, err := NewCattle(NewCattleParams{
		TagNumber:      tag,
		Breed:          "Angus",
		Sex:            SexCow,
		BirthDate:      &born,
		EstimatedValue: decimal.NewFromInt(1800),
	})
	require.NoError(t, err)
	return cow
}

func TestNewCattle(t *testing.T) {
	cow := newTestCow(t, " a-101 ")
	assert.Equal(t, "A-101", cow.TagNumber)
	assert.Equal(t, StatusActive, cow.Status)
	assert.Equal(t, 1, cow.Version)

	_, err := NewCattle(NewCattleParams{TagNumber: "", Sex: SexCow})
	assert.True(t, shared.IsValidationError(err))

	_, err = NewCattle(NewCattleParams{TagNumber: "X1", Sex: "goat"})
	assert.True(t, shared.IsValidationError(err))

	_, err = NewCattle(NewCattleParams{TagNumber: "X1", Sex: SexCalf, Dam: ParentRef{TagNumber: "x1"}})
	assert.True(t, shared.IsValidationError(err))
}

func TestCattle_HealthWithdrawal(t *testing.T) {
	cow := newTestCow(t, "A1")
	treated := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	rec, err := cow.AddHealthRecord(HealthRecord{Date: treated, Treatment: "Pinkeye", Medication: "LA-200", WithdrawalDays: 28})
	require.NoError(t, err)
	require.NotNil(t, rec.WithdrawalDate)
	assert.Equal(t, time.Date(2026, 5, 29, 0, 0, 0, 0, time.UTC), *rec.WithdrawalDate)

	assert.True(t, cow.InWithdrawal(treated.AddDate(0, 0, 10)))
	assert.False(t, cow.InWithdrawal(treated.AddDate(0, 0, 28)))

	noWithdrawal, err := cow.AddHealthRecord(HealthRecord{Date: treated, Treatment: "Vaccination"})
	require.NoError(t, err)
	assert.Nil(t, noWithdrawal.WithdrawalDate)
}

func TestCattle_Breeding(t *testing.T) {
	cow := newTestCow(t, "A1")
	bred := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rec, err := cow.AddBreeding(bred, BreedingAI, "sire-9")
	require.NoError(t, err)
	assert.Equal(t, bred.AddDate(0, 0, GestationDays), rec.ExpectedCalvingDate)
	assert.Equal(t, "SIRE-9", rec.SireTag)

	steer, err := NewCattle(NewCattleParams{TagNumber: "S1", Sex: SexSteer})
	require.NoError(t, err)
	_, err = steer.AddBreeding(bred, BreedingNatural, "")
	assert.True(t, shared.IsValidationError(err))
}

func TestCattle_RecordCalving(t *testing.T) {
	heifer, err := NewCattle(NewCattleParams{TagNumber: "H7", Sex: SexHeifer})
	require.NoError(t, err)

	born := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	calf, err := NewCattle(NewCattleParams{TagNumber: "C26-1", Sex: SexCalf, BirthDate: &born, Dam: ParentRef{TagNumber: "H7", ID: &heifer.ID}})
	require.NoError(t, err)
	require.NoError(t, calf.AddWeight(born, decimal.NewFromInt(78), "birth"))

	require.NoError(t, heifer.RecordCalving(calf, EaseUnassisted, ""))
	require.Len(t, heifer.CalvingHistory, 1)
	entry := heifer.CalvingHistory[0]
	assert.Equal(t, "C26-1", entry.CalfTag)
	assert.Equal(t, calf.ID, *entry.CalfID)
	assert.True(t, entry.BirthWeight.Equal(decimal.NewFromInt(78)))
	assert.Equal(t, SexCow, heifer.Sex)

	bull, err := NewCattle(NewCattleParams{TagNumber: "B1", Sex: SexBull})
	require.NoError(t, err)
	assert.Error(t, bull.RecordCalving(calf, EaseUnassisted, ""))
}

func TestCattle_ValuationAndWeights(t *testing.T) {
	cow := newTestCow(t, "A1")
	assert.True(t, cow.MarketValue().Equal(decimal.NewFromInt(1800)))
	require.NoError(t, cow.SetMarketValue(decimal.NewFromInt(2100)))
	assert.True(t, cow.MarketValue().Equal(decimal.NewFromInt(2100)))

	assert.Nil(t, cow.AverageDailyGain())
	d0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, cow.AddWeight(d0.AddDate(0, 0, 100), decimal.NewFromInt(1300), ""))
	require.NoError(t, cow.AddWeight(d0, decimal.NewFromInt(1100), ""))
	assert.Error(t, cow.AddWeight(d0, decimal.Zero, ""))

	adg := cow.AverageDailyGain()
	require.NotNil(t, adg)
	assert.True(t, adg.Equal(decimal.NewFromInt(2)))
	assert.True(t, cow.LatestWeight().Weight.Equal(decimal.NewFromInt(1300)))

	assert.Equal(t, 60, cow.AgeInMonths(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestCattle_MarkSold(t *testing.T) {
	cow := newTestCow(t, "A1")
	require.NoError(t, cow.MarkSold(time.Now(), decimal.NewFromInt(1950)))
	assert.Equal(t, StatusSold, cow.Status)
	assert.Error(t, cow.MarkSold(time.Now(), decimal.NewFromInt(1950)))
	assert.Error(t, cow.SetStatus(StatusSold))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	a := newTestCow(t, "A1")
	_, err := a.AddHealthRecord(HealthRecord{Date: now.AddDate(0, 0, -1), Treatment: "Foot rot", WithdrawalDays: 14})
	require.NoError(t, err)
	_, err = a.AddBreeding(now.AddDate(0, 0, -GestationDays+10), BreedingNatural, "")
	require.NoError(t, err)

	b := newTestCow(t, "A2")
	require.NoError(t, b.MarkSold(now, decimal.NewFromInt(1500)))

	s := Summarize([]Cattle{*a, *b}, now)
	assert.Equal(t, 2, s.TotalHead)
	assert.Equal(t, 1, s.ActiveHead)
	assert.Equal(t, 1, s.ByStatus[StatusSold])
	assert.True(t, s.MarketValue.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, []string{"A1"}, s.InWithdrawal)
	assert.Equal(t, []string{"A1"}, s.DueToCalve)
}

func TestCattle_Update(t *testing.T) {
	cow := newTestCow(t, "A-7")
	culled := StatusCulled
	value := decimal.NewFromInt(1400)

	require.NoError(t, cow.Update(CattleDetails{Name: " Bessie ", Pasture: "East", MarketValue: &value, Status: &culled}))
	assert.Equal(t, "Bessie", cow.Name)
	assert.Equal(t, StatusCulled, cow.Status)
	assert.True(t, cow.MarketValue().Equal(value))
	assert.Equal(t, 2, cow.Version)

	sold := StatusSold
	assert.True(t, shared.IsValidationError(cow.Update(CattleDetails{Status: &sold})))

	future := time.Now().AddDate(1, 0, 0)
	assert.True(t, shared.IsValidationError(cow.Update(CattleDetails{BirthDate: &future})))
	assert.Equal(t, 2, cow.Version)
}
