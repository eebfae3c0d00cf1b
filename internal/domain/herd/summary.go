package herd

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is a head count and valuation of the herd
type Summary struct {
	TotalHead    int
	ActiveHead   int
	BySex        map[Sex]int
	ByStatus     map[Status]int
	MarketValue  decimal.Decimal
	InWithdrawal []string
	DueToCalve   []string // active females with an expected calving in the next 30 days
}

// Summarize counts the herd; only active animals carry market value
func Summarize(cattle []Cattle, now time.Time) Summary {
	s := Summary{
		BySex:        make(map[Sex]int),
		ByStatus:     make(map[Status]int),
		MarketValue:  decimal.Zero,
		InWithdrawal: []string{},
		DueToCalve:   []string{},
	}
	horizon := now.AddDate(0, 0, 30)
	for i := range cattle {
		c := &cattle[i]
		s.TotalHead++
		s.ByStatus[c.Status]++
		if c.Status != StatusActive {
			continue
		}
		s.ActiveHead++
		s.BySex[c.Sex]++
		s.MarketValue = s.MarketValue.Add(c.MarketValue())
		if c.InWithdrawal(now) {
			s.InWithdrawal = append(s.InWithdrawal, c.TagNumber)
		}
		for _, b := range c.BreedingRecords {
			if !b.ExpectedCalvingDate.Before(now) && !b.ExpectedCalvingDate.After(horizon) {
				s.DueToCalve = append(s.DueToCalve, c.TagNumber)
				break
			}
		}
	}
	return s
}
