// Package loans provides the fixed-rate loan calculations: the annuity
// payment formula, lifetime totals and the amortization schedule. Every
// function is pure; callers own rounding and display.
package loans

import (
	"math"

	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/mathutil"
)

// Parameters describes a loan to amortize.
type Parameters struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermYears         int     `json:"termYears"`
}

// AmortizationRow holds the values for a given month of the schedule.
type AmortizationRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Summary holds the lifetime figures for a loan.
type Summary struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. A non-positive principal or term yields zero.
func CalculateMonthlyPayment(principal, annualRatePercent float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}

	numberOfPayments := float64(termYears * constants.MonthsPerYear)
	if annualRatePercent == 0 {
		// For zero interest, simply divide the principal by term
		return principal / numberOfPayments
	}

	monthlyRate := MonthlyRate(annualRatePercent)
	power := math.Pow(1+monthlyRate, numberOfPayments)
	return principal * (monthlyRate * power) / (power - 1)
}

// MonthlyRate converts an annual percentage rate into a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CalculateTotalPayment calculates the sum of all payments over the term.
func CalculateTotalPayment(monthlyPayment float64, termYears int) float64 {
	return monthlyPayment * float64(termYears) * constants.MonthsPerYear
}

// CalculateTotalInterest calculates the interest paid over the term. The
// result is negative when the principal exceeds the total payment, which only
// happens for degenerate inputs.
func CalculateTotalInterest(totalPayment, principal float64) float64 {
	return totalPayment - principal
}

// Summarize computes the payment and lifetime totals for p.
func (p Parameters) Summarize() Summary {
	monthly := CalculateMonthlyPayment(p.Principal, p.AnnualRatePercent, p.TermYears)
	total := CalculateTotalPayment(monthly, p.TermYears)
	return Summary{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  CalculateTotalInterest(total, p.Principal),
	}
}

// GenerateLedger produces one row per month of the term. The reported balance
// is floored at zero to absorb floating point drift on the final payment.
func GenerateLedger(principal, annualRatePercent float64, termYears int) []AmortizationRow {
	monthlyPayment := CalculateMonthlyPayment(principal, annualRatePercent, termYears)
	monthlyRate := MonthlyRate(annualRatePercent)
	numberOfPayments := termYears * constants.MonthsPerYear
	if numberOfPayments <= 0 {
		return nil
	}

	ledger := make([]AmortizationRow, 0, numberOfPayments)
	balance := principal
	for month := 1; month <= numberOfPayments; month++ {
		interest := balance * monthlyRate
		principalPortion := monthlyPayment - interest
		balance -= principalPortion

		ledger = append(ledger, AmortizationRow{
			Month:     month,
			Payment:   monthlyPayment,
			Principal: principalPortion,
			Interest:  interest,
			Balance:   mathutil.ClampZero(balance),
		})
	}

	return ledger
}

// GenerateAmortizationSchedule produces the display schedule: the first month
// and every twelfth month of the full ledger.
func GenerateAmortizationSchedule(principal, annualRatePercent float64, termYears int) []AmortizationRow {
	ledger := GenerateLedger(principal, annualRatePercent, termYears)

	schedule := make([]AmortizationRow, 0, len(ledger)/constants.ScheduleSampleInterval+1)
	for _, row := range ledger {
		if row.Month == 1 || row.Month%constants.ScheduleSampleInterval == 0 {
			schedule = append(schedule, row)
		}
	}

	return schedule
}

// Schedule is GenerateAmortizationSchedule for p.
func (p Parameters) Schedule() []AmortizationRow {
	return GenerateAmortizationSchedule(p.Principal, p.AnnualRatePercent, p.TermYears)
}
