package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/housing-calculator/pkg/charges"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/loans"
	"github.com/iwvelando/housing-calculator/pkg/mathutil"
)

// DownPaymentMode selects which of the down payment figures is authoritative.
type DownPaymentMode string

const (
	// DownPaymentPercent takes the down payment as a percentage of the base amount.
	DownPaymentPercent DownPaymentMode = "percent"
	// DownPaymentAmount takes the down payment as a fixed dollar amount.
	DownPaymentAmount DownPaymentMode = "amount"
)

// Scenarios holds the inputs of the three compared scenarios. Each record is
// a plain value; nothing in the application mutates one in place.
type Scenarios struct {
	ExistingLoan ExistingLoanScenario `yaml:"existingLoan" json:"existingLoan" mapstructure:"existingLoan"`
	HousePrice   HousePriceScenario   `yaml:"housePrice" json:"housePrice" mapstructure:"housePrice"`
	Rental       RentalScenario       `yaml:"rental" json:"rental" mapstructure:"rental"`
}

// DownPayment holds both representations of a down payment; Mode picks one.
type DownPayment struct {
	Mode    DownPaymentMode `yaml:"mode" json:"mode" mapstructure:"mode"`
	Percent float64         `yaml:"percent" json:"percent" mapstructure:"percent"`
	Amount  float64         `yaml:"amount" json:"amount" mapstructure:"amount"`
}

// ExistingLoanScenario finances a new loan together with an existing mortgage balance.
type ExistingLoanScenario struct {
	LoanAmount          float64      `yaml:"loanAmount" json:"loanAmount" mapstructure:"loanAmount"`
	ExistingMortgage    float64      `yaml:"existingMortgage" json:"existingMortgage" mapstructure:"existingMortgage"`
	DownPayment         DownPayment  `yaml:"downPayment" json:"downPayment" mapstructure:"downPayment"`
	InterestRate        float64      `yaml:"interestRate" json:"interestRate" mapstructure:"interestRate"`
	TermYears           int          `yaml:"termYears" json:"termYears" mapstructure:"termYears"`
	PropertyTax         float64      `yaml:"propertyTax" json:"propertyTax" mapstructure:"propertyTax"`
	HomeownersInsurance float64      `yaml:"homeownersInsurance" json:"homeownersInsurance" mapstructure:"homeownersInsurance"`
	CustomCharges       charges.List `yaml:"customCharges,omitempty" json:"customCharges,omitempty" mapstructure:"customCharges"`
}

// HousePriceScenario finances a house price less a down payment.
type HousePriceScenario struct {
	HousePrice          float64      `yaml:"housePrice" json:"housePrice" mapstructure:"housePrice"`
	DownPayment         DownPayment  `yaml:"downPayment" json:"downPayment" mapstructure:"downPayment"`
	InterestRate        float64      `yaml:"interestRate" json:"interestRate" mapstructure:"interestRate"`
	TermYears           int          `yaml:"termYears" json:"termYears" mapstructure:"termYears"`
	PropertyTax         float64      `yaml:"propertyTax" json:"propertyTax" mapstructure:"propertyTax"`
	HomeownersInsurance float64      `yaml:"homeownersInsurance" json:"homeownersInsurance" mapstructure:"homeownersInsurance"`
	CustomCharges       charges.List `yaml:"customCharges,omitempty" json:"customCharges,omitempty" mapstructure:"customCharges"`
}

// RentalScenario describes renting with a yearly compounding rent increase.
type RentalScenario struct {
	MonthlyRent      float64 `yaml:"monthlyRent" json:"monthlyRent" mapstructure:"monthlyRent"`
	RentersInsurance float64 `yaml:"rentersInsurance" json:"rentersInsurance" mapstructure:"rentersInsurance"`
	Years            int     `yaml:"years" json:"years" mapstructure:"years"`
	YearlyIncrease   float64 `yaml:"yearlyIncrease" json:"yearlyIncrease" mapstructure:"yearlyIncrease"`
}

// DefaultScenarios returns the inputs a new comparison starts from.
func DefaultScenarios() Scenarios {
	return Scenarios{
		ExistingLoan: ExistingLoanScenario{
			LoanAmount:       300000,
			ExistingMortgage: 0,
			DownPayment: DownPayment{
				Mode:    DownPaymentPercent,
				Percent: 20,
				Amount:  60000,
			},
			InterestRate:        6.5,
			TermYears:           30,
			PropertyTax:         300,
			HomeownersInsurance: 150,
		},
		HousePrice: HousePriceScenario{
			HousePrice: 400000,
			DownPayment: DownPayment{
				Mode:    DownPaymentPercent,
				Percent: 20,
				Amount:  80000,
			},
			InterestRate:        6.5,
			TermYears:           30,
			PropertyTax:         300,
			HomeownersInsurance: 150,
		},
		Rental: RentalScenario{
			MonthlyRent:      2000,
			RentersInsurance: 25,
			Years:            30,
			YearlyIncrease:   2.5,
		},
	}
}

// Resolve returns the down payment in dollars for the given base amount.
// Any mode other than DownPaymentAmount is treated as a percentage.
func (d DownPayment) Resolve(base float64) float64 {
	if d.Mode == DownPaymentAmount {
		return d.Amount
	}
	return mathutil.ApplyPercentage(base, d.Percent)
}

// Toggle switches the representation, deriving the newly active figure from
// the current one against base.
func (d DownPayment) Toggle(base float64) DownPayment {
	if d.Mode == DownPaymentAmount {
		d.Percent = mathutil.CalculatePercentage(d.Amount, base)
		d.Mode = DownPaymentPercent
		return d
	}
	d.Amount = mathutil.ApplyPercentage(base, d.Percent)
	d.Mode = DownPaymentAmount
	return d
}

// TotalLoanAmount is the new loan plus the existing mortgage balance.
func (s ExistingLoanScenario) TotalLoanAmount() float64 {
	return s.LoanAmount + s.ExistingMortgage
}

// DownPaymentAmount resolves the down payment against the combined loan amount.
func (s ExistingLoanScenario) DownPaymentAmount() float64 {
	return s.DownPayment.Resolve(s.TotalLoanAmount())
}

// Principal is the financed amount.
func (s ExistingLoanScenario) Principal() float64 {
	return s.TotalLoanAmount() - s.DownPaymentAmount()
}

// StaticCharges sums the fixed monthly add-ons.
func (s ExistingLoanScenario) StaticCharges() float64 {
	return s.PropertyTax + s.HomeownersInsurance + s.CustomCharges.Total()
}

// LoanParameters returns the engine inputs for the scenario.
func (s ExistingLoanScenario) LoanParameters() loans.Parameters {
	return loans.Parameters{Principal: s.Principal(), AnnualRatePercent: s.InterestRate, TermYears: s.TermYears}
}

// DownPaymentAmount resolves the down payment against the house price.
func (s HousePriceScenario) DownPaymentAmount() float64 {
	return s.DownPayment.Resolve(s.HousePrice)
}

// TotalLoanAmount is the house price less the down payment.
func (s HousePriceScenario) TotalLoanAmount() float64 {
	return s.HousePrice - s.DownPaymentAmount()
}

// Principal is the financed amount.
func (s HousePriceScenario) Principal() float64 {
	return s.TotalLoanAmount()
}

// StaticCharges sums the fixed monthly add-ons.
func (s HousePriceScenario) StaticCharges() float64 {
	return s.PropertyTax + s.HomeownersInsurance + s.CustomCharges.Total()
}

// LoanParameters returns the engine inputs for the scenario.
func (s HousePriceScenario) LoanParameters() loans.Parameters {
	return loans.Parameters{Principal: s.Principal(), AnnualRatePercent: s.InterestRate, TermYears: s.TermYears}
}

// Normalize fills in charge identifiers. It returns a copy.
func (s Scenarios) Normalize() Scenarios {
	s.ExistingLoan.CustomCharges = s.ExistingLoan.CustomCharges.Normalize()
	s.HousePrice.CustomCharges = s.HousePrice.CustomCharges.Normalize()
	return s
}

// Validate returns warnings for inputs the calculations accept but which
// produce meaningless results.
func (s Scenarios) Validate() []string {
	var warnings []string

	warnings = append(warnings, validateMortgage("existingLoan", s.ExistingLoan.DownPayment,
		s.ExistingLoan.TotalLoanAmount(), s.ExistingLoan.Principal(), s.ExistingLoan.InterestRate, s.ExistingLoan.TermYears)...)
	warnings = append(warnings, validateMortgage("housePrice", s.HousePrice.DownPayment,
		s.HousePrice.HousePrice, s.HousePrice.Principal(), s.HousePrice.InterestRate, s.HousePrice.TermYears)...)

	if s.Rental.Years <= 0 {
		warnings = append(warnings, fmt.Sprintf("rental: years must be positive, got %d", s.Rental.Years))
	}
	if s.Rental.MonthlyRent < 0 {
		warnings = append(warnings, fmt.Sprintf("rental: monthly rent is negative (%.2f)", s.Rental.MonthlyRent))
	}
	if s.Rental.RentersInsurance < 0 {
		warnings = append(warnings, fmt.Sprintf("rental: renters insurance is negative (%.2f)", s.Rental.RentersInsurance))
	}

	return warnings
}

// ErrHorizonTooLong is returned by CheckHorizons when a term or rental
// horizon exceeds constants.MaxHorizonYears.
var ErrHorizonTooLong = errors.New("horizon too long")

// CheckHorizons rejects loan terms and rental horizons longer than
// constants.MaxHorizonYears. Schedules and rental breakdowns hold one entry
// per month or year, so these are the inputs that size the result.
func (s Scenarios) CheckHorizons() error {
	var problems []string
	for _, h := range []struct {
		name  string
		years int
	}{
		{"existingLoan.termYears", s.ExistingLoan.TermYears},
		{"housePrice.termYears", s.HousePrice.TermYears},
		{"rental.years", s.Rental.Years},
	} {
		if h.years > constants.MaxHorizonYears {
			problems = append(problems, fmt.Sprintf("%s is %d", h.name, h.years))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s (maximum %d years)", ErrHorizonTooLong,
			strings.Join(problems, ", "), constants.MaxHorizonYears)
	}
	return nil
}

func validateMortgage(name string, down DownPayment, base, principal, rate float64, term int) []string {
	var warnings []string

	switch down.Mode {
	case DownPaymentPercent, DownPaymentAmount:
	default:
		warnings = append(warnings, fmt.Sprintf("%s: unknown down payment mode %q, treating as %s",
			name, down.Mode, DownPaymentPercent))
	}
	if down.Resolve(base) > base {
		warnings = append(warnings, fmt.Sprintf("%s: down payment %.2f exceeds %.2f", name, down.Resolve(base), base))
	}
	if principal < 0 || mathutil.IsZero(principal) {
		warnings = append(warnings, fmt.Sprintf("%s: financed principal is %.2f, payment will be zero", name, principal))
	}
	if rate < 0 {
		warnings = append(warnings, fmt.Sprintf("%s: interest rate is negative (%.2f)", name, rate))
	}
	if term <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: term must be positive, got %d years", name, term))
	}

	return warnings
}
