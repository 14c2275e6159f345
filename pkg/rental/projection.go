// Package rental projects the cost of renting over a multi-year horizon with
// rent escalating geometrically once per year.
package rental

import (
	"math"

	"github.com/iwvelando/housing-calculator/pkg/constants"
)

// YearRow holds the rental costs for one year of the horizon.
type YearRow struct {
	Year             int     `json:"year"`
	MonthlyRent      float64 `json:"monthlyRent"`
	MonthlyInsurance float64 `json:"monthlyInsurance"`
	TotalMonthly     float64 `json:"totalMonthly"`
	YearlyCost       float64 `json:"yearlyCost"`
}

// Projection is the per-year breakdown and its sum.
type Projection struct {
	Years     []YearRow `json:"years"`
	TotalCost float64   `json:"totalCost"`
}

// Project computes the yearly rental breakdown. Rent for the zero-indexed
// year y is monthlyRent * (1 + yearlyIncreasePercent/100)^y and stays constant
// within the year; insurance does not escalate.
func Project(monthlyRent, monthlyInsurance float64, years int, yearlyIncreasePercent float64) ([]YearRow, float64) {
	if years <= 0 {
		return nil, 0
	}

	growth := 1 + yearlyIncreasePercent/constants.PercentageMultiplier
	rows := make([]YearRow, 0, years)
	totalCost := 0.0
	for year := 0; year < years; year++ {
		yearlyRent := monthlyRent * math.Pow(growth, float64(year))
		totalMonthly := yearlyRent + monthlyInsurance
		yearlyCost := totalMonthly * constants.MonthsPerYear

		rows = append(rows, YearRow{
			Year:             year + 1,
			MonthlyRent:      yearlyRent,
			MonthlyInsurance: monthlyInsurance,
			TotalMonthly:     totalMonthly,
			YearlyCost:       yearlyCost,
		})
		totalCost += yearlyCost
	}

	return rows, totalCost
}

// NewProjection wraps Project into a Projection.
func NewProjection(monthlyRent, monthlyInsurance float64, years int, yearlyIncreasePercent float64) Projection {
	rows, total := Project(monthlyRent, monthlyInsurance, years, yearlyIncreasePercent)
	return Projection{Years: rows, TotalCost: total}
}

// FirstMonthlyPayment is the monthly cost before any escalation.
func FirstMonthlyPayment(monthlyRent, monthlyInsurance float64) float64 {
	return monthlyRent + monthlyInsurance
}
