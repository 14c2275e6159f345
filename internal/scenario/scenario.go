// Package scenario composes scenario inputs with the loan and rental
// calculations into the figures shown side by side: monthly payments,
// lifetime totals including recurring charges, schedules and warnings.
package scenario

import (
	"fmt"
	"math"

	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/pkg/charges"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/loans"
	"github.com/iwvelando/housing-calculator/pkg/mathutil"
	"github.com/iwvelando/housing-calculator/pkg/rental"
	"go.uber.org/zap"
)

// Kind identifies one of the compared scenarios.
type Kind string

const (
	// KindExistingLoan is the new loan plus existing mortgage scenario.
	KindExistingLoan Kind = "existing-loan"
	// KindHousePrice is the house price driven scenario.
	KindHousePrice Kind = "house-price"
	// KindRental is the rental scenario.
	KindRental Kind = "rental"
)

// Display names for each scenario.
var names = map[Kind]string{
	KindExistingLoan: "Existing Loan + New Loan",
	KindHousePrice:   "House Price",
	KindRental:       "Rental",
}

// Name returns the display name of k.
func (k Kind) Name() string {
	if name, ok := names[k]; ok {
		return name
	}
	return string(k)
}

// Options controls optional parts of the comparison.
type Options struct {
	// IncludeSchedule attaches the sampled amortization schedule to each
	// mortgage result.
	IncludeSchedule bool
}

// MortgageResult holds the computed figures for a mortgage scenario.
type MortgageResult struct {
	Kind                        Kind                    `json:"kind"`
	Name                        string                  `json:"name"`
	TotalLoanAmount             float64                 `json:"totalLoanAmount"`
	DownPayment                 float64                 `json:"downPayment"`
	Principal                   float64                 `json:"principal"`
	InterestRate                float64                 `json:"interestRate"`
	TermYears                   int                     `json:"termYears"`
	MonthlyPrincipalAndInterest float64                 `json:"monthlyPrincipalAndInterest"`
	PropertyTax                 float64                 `json:"propertyTax"`
	HomeownersInsurance         float64                 `json:"homeownersInsurance"`
	CustomCharges               charges.List            `json:"customCharges,omitempty"`
	StaticCharges               float64                 `json:"staticCharges"`
	TotalMonthlyPayment         float64                 `json:"totalMonthlyPayment"`
	TotalPayment                float64                 `json:"totalPayment"`
	TotalInterest               float64                 `json:"totalInterest"`
	TotalCostWithCharges        float64                 `json:"totalCostWithCharges"`
	Schedule                    []loans.AmortizationRow `json:"schedule,omitempty"`
}

// RentalResult holds the computed figures for the rental scenario.
type RentalResult struct {
	Kind                Kind             `json:"kind"`
	Name                string           `json:"name"`
	MonthlyRent         float64          `json:"monthlyRent"`
	RentersInsurance    float64          `json:"rentersInsurance"`
	Years               int              `json:"years"`
	YearlyIncrease      float64          `json:"yearlyIncrease"`
	TotalMonthlyPayment float64          `json:"totalMonthlyPayment"`
	Breakdown           []rental.YearRow `json:"breakdown"`
	TotalCost           float64          `json:"totalCost"`
}

// Comparison holds all three scenario results.
type Comparison struct {
	ExistingLoan MortgageResult `json:"existingLoan"`
	HousePrice   MortgageResult `json:"housePrice"`
	Rental       RentalResult   `json:"rental"`
	Cheapest     Kind           `json:"cheapest"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// TotalCostWithCharges adds the recurring monthly charges over the whole
// term to the total loan payment.
func TotalCostWithCharges(totalPayment, monthlyStaticCharges float64, termYears int) float64 {
	return totalPayment + monthlyStaticCharges*float64(termYears)*constants.MonthsPerYear
}

// EvaluateExistingLoan computes the existing-loan scenario.
func EvaluateExistingLoan(s config.ExistingLoanScenario, opts Options) MortgageResult {
	result := evaluateMortgage(KindExistingLoan, s.LoanParameters(), s.StaticCharges(), opts)
	result.TotalLoanAmount = s.TotalLoanAmount()
	result.DownPayment = s.DownPaymentAmount()
	result.PropertyTax = s.PropertyTax
	result.HomeownersInsurance = s.HomeownersInsurance
	result.CustomCharges = s.CustomCharges
	return result
}

// EvaluateHousePrice computes the house-price scenario.
func EvaluateHousePrice(s config.HousePriceScenario, opts Options) MortgageResult {
	result := evaluateMortgage(KindHousePrice, s.LoanParameters(), s.StaticCharges(), opts)
	result.TotalLoanAmount = s.TotalLoanAmount()
	result.DownPayment = s.DownPaymentAmount()
	result.PropertyTax = s.PropertyTax
	result.HomeownersInsurance = s.HomeownersInsurance
	result.CustomCharges = s.CustomCharges
	return result
}

func evaluateMortgage(kind Kind, params loans.Parameters, staticCharges float64, opts Options) MortgageResult {
	summary := params.Summarize()
	result := MortgageResult{
		Kind:                        kind,
		Name:                        kind.Name(),
		Principal:                   params.Principal,
		InterestRate:                params.AnnualRatePercent,
		TermYears:                   params.TermYears,
		MonthlyPrincipalAndInterest: summary.MonthlyPayment,
		StaticCharges:               staticCharges,
		TotalMonthlyPayment:         summary.MonthlyPayment + staticCharges,
		TotalPayment:                summary.TotalPayment,
		TotalInterest:               summary.TotalInterest,
		TotalCostWithCharges:        TotalCostWithCharges(summary.TotalPayment, staticCharges, params.TermYears),
	}
	if opts.IncludeSchedule {
		result.Schedule = params.Schedule()
	}
	return result
}

// EvaluateRental computes the rental scenario.
func EvaluateRental(s config.RentalScenario) RentalResult {
	rows, total := rental.Project(s.MonthlyRent, s.RentersInsurance, s.Years, s.YearlyIncrease)
	return RentalResult{
		Kind:                KindRental,
		Name:                KindRental.Name(),
		MonthlyRent:         s.MonthlyRent,
		RentersInsurance:    s.RentersInsurance,
		Years:               s.Years,
		YearlyIncrease:      s.YearlyIncrease,
		TotalMonthlyPayment: rental.FirstMonthlyPayment(s.MonthlyRent, s.RentersInsurance),
		Breakdown:           rows,
		TotalCost:           total,
	}
}

// Compare evaluates all three scenarios. Input problems never fail the
// comparison; they are returned as warnings alongside the figures.
func Compare(logger *zap.Logger, s config.Scenarios, opts Options) Comparison {
	if logger == nil {
		logger = zap.NewNop()
	}

	comparison := Comparison{
		ExistingLoan: EvaluateExistingLoan(s.ExistingLoan, opts),
		HousePrice:   EvaluateHousePrice(s.HousePrice, opts),
		Rental:       EvaluateRental(s.Rental),
	}
	comparison.Cheapest = cheapest(comparison)

	warnings := s.Validate()
	for _, result := range []MortgageResult{comparison.ExistingLoan, comparison.HousePrice} {
		if mathutil.IsNegative(result.TotalInterest) {
			warnings = append(warnings, fmt.Sprintf("%s: total interest is negative (%.2f), check the loan inputs",
				result.Kind, result.TotalInterest))
		}
	}
	warnings = append(warnings, comparison.NonFinite()...)
	comparison.Warnings = warnings

	for _, warning := range warnings {
		logger.Warn("scenario warning: "+warning,
			zap.String("op", "scenario.Compare"),
		)
	}
	logger.Debug("comparison computed",
		zap.String("op", "scenario.Compare"),
		zap.Float64("existingLoanMonthly", comparison.ExistingLoan.TotalMonthlyPayment),
		zap.Float64("housePriceMonthly", comparison.HousePrice.TotalMonthlyPayment),
		zap.Float64("rentalMonthly", comparison.Rental.TotalMonthlyPayment),
		zap.String("cheapest", string(comparison.Cheapest)),
	)

	return comparison
}

// Mortgage returns the mortgage result for kind.
func (c Comparison) Mortgage(kind Kind) (MortgageResult, bool) {
	switch kind {
	case KindExistingLoan:
		return c.ExistingLoan, true
	case KindHousePrice:
		return c.HousePrice, true
	}
	return MortgageResult{}, false
}

// TotalCost returns the lifetime cost of the scenario identified by kind.
func (c Comparison) TotalCost(kind Kind) float64 {
	if kind == KindRental {
		return c.Rental.TotalCost
	}
	if result, ok := c.Mortgage(kind); ok {
		return result.TotalCostWithCharges
	}
	return 0
}

// NonFinite describes every headline figure that overflowed to an infinity
// or became NaN. Such figures cannot be encoded as JSON.
func (c Comparison) NonFinite() []string {
	var problems []string
	check := func(kind Kind, field string, v float64) {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			problems = append(problems, fmt.Sprintf("%s: %s is not a finite number (%v)", kind, field, v))
		}
	}
	for _, result := range []MortgageResult{c.ExistingLoan, c.HousePrice} {
		check(result.Kind, "monthly principal and interest", result.MonthlyPrincipalAndInterest)
		check(result.Kind, "total payment", result.TotalPayment)
		check(result.Kind, "total interest", result.TotalInterest)
		check(result.Kind, "total cost with charges", result.TotalCostWithCharges)
	}
	check(KindRental, "total monthly payment", c.Rental.TotalMonthlyPayment)
	check(KindRental, "total cost", c.Rental.TotalCost)
	return problems
}

// cheapest picks the scenario with the lowest lifetime cost, each over its
// own horizon. Costs within a cent of each other count as a tie, and ties go
// to the earlier scenario.
func cheapest(c Comparison) Kind {
	best := KindExistingLoan
	for _, kind := range []Kind{KindHousePrice, KindRental} {
		cost, bestCost := c.TotalCost(kind), c.TotalCost(best)
		if mathutil.WithinTolerance(cost, bestCost, constants.CurrencyTolerance) {
			continue
		}
		if cost < bestCost {
			best = kind
		}
	}
	return best
}
