package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/housing-calculator/pkg/charges"
	"github.com/iwvelando/housing-calculator/pkg/constants"
)

const sampleConfig = `
logging:
  level: debug
  format: console
output:
  format: csv
  schedule: true
storage:
  backend: memory
scenarios:
  existingLoan:
    loanAmount: 250000
    existingMortgage: 50000
    downPayment:
      mode: amount
      amount: 30000
    interestRate: 5.25
    termYears: 15
    customCharges:
      - name: HOA
        amount: 120
      - name: PMI
        amount: 80
  housePrice:
    housePrice: 500000
  rental:
    monthlyRent: 2400
    years: 10
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "housing-calculator.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" || !conf.Output.Schedule {
		t.Errorf("unexpected output config %+v", conf.Output)
	}
	if conf.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, expected memory", conf.Storage.Backend)
	}

	existing := conf.Scenarios.ExistingLoan
	if existing.TotalLoanAmount() != 300000 {
		t.Errorf("TotalLoanAmount() = %v, expected 300000", existing.TotalLoanAmount())
	}
	if existing.DownPayment.Mode != DownPaymentAmount || existing.DownPaymentAmount() != 30000 {
		t.Errorf("unexpected down payment %+v", existing.DownPayment)
	}
	if existing.Principal() != 270000 {
		t.Errorf("Principal() = %v, expected 270000", existing.Principal())
	}
	if existing.TermYears != 15 || existing.InterestRate != 5.25 {
		t.Errorf("unexpected loan terms: %d years at %v", existing.TermYears, existing.InterestRate)
	}
	// Unset fields keep their defaults.
	if existing.PropertyTax != 300 || existing.HomeownersInsurance != 150 {
		t.Errorf("expected default static charges, got tax %v insurance %v", existing.PropertyTax, existing.HomeownersInsurance)
	}
	if len(existing.CustomCharges) != 2 || existing.CustomCharges[0].ID != 1 || existing.CustomCharges[1].ID != 2 {
		t.Errorf("expected normalized custom charges, got %+v", existing.CustomCharges)
	}
	if existing.StaticCharges() != 650 {
		t.Errorf("StaticCharges() = %v, expected 650", existing.StaticCharges())
	}

	house := conf.Scenarios.HousePrice
	if house.HousePrice != 500000 || house.DownPaymentAmount() != 100000 || house.Principal() != 400000 {
		t.Errorf("unexpected house price scenario %+v", house)
	}

	if conf.Scenarios.Rental.MonthlyRent != 2400 || conf.Scenarios.Rental.Years != 10 {
		t.Errorf("unexpected rental scenario %+v", conf.Scenarios.Rental)
	}
	if conf.Scenarios.Rental.RentersInsurance != 25 || conf.Scenarios.Rental.YearlyIncrease != 2.5 {
		t.Errorf("expected rental defaults, got %+v", conf.Scenarios.Rental)
	}
}

func TestLoadConfigurationFromReaderEmptyMatchesDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	defaults := DefaultScenarios()
	if !sameExisting(conf.Scenarios.ExistingLoan, defaults.ExistingLoan) {
		t.Errorf("existing loan defaults differ: %+v vs %+v", conf.Scenarios.ExistingLoan, defaults.ExistingLoan)
	}
	if !sameHouse(conf.Scenarios.HousePrice, defaults.HousePrice) {
		t.Errorf("house price defaults differ: %+v vs %+v", conf.Scenarios.HousePrice, defaults.HousePrice)
	}
	if conf.Scenarios.Rental != defaults.Rental {
		t.Errorf("rental defaults differ: %+v vs %+v", conf.Scenarios.Rental, defaults.Rental)
	}
	if conf.Storage.Backend != "file" || conf.Output.Format != "pretty" || conf.Logging.Level != "info" {
		t.Errorf("unexpected ambient defaults: %+v %+v %+v", conf.Storage, conf.Output, conf.Logging)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("scenarios: [unterminated")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("HOUSING_SCENARIOS_RENTAL_MONTHLYRENT", "3100")
	t.Setenv("HOUSING_STORAGE_BACKEND", "redis")

	conf := Default()
	if conf.Scenarios.Rental.MonthlyRent != 3100 {
		t.Errorf("MonthlyRent = %v, expected 3100 from environment", conf.Scenarios.Rental.MonthlyRent)
	}
	if conf.Storage.Backend != "redis" {
		t.Errorf("Storage.Backend = %q, expected redis from environment", conf.Storage.Backend)
	}
}

func TestDownPaymentToggle(t *testing.T) {
	down := DownPayment{Mode: DownPaymentPercent, Percent: 20, Amount: 1}

	asAmount := down.Toggle(400000)
	if asAmount.Mode != DownPaymentAmount || asAmount.Amount != 80000 {
		t.Fatalf("Toggle() to amount = %+v", asAmount)
	}
	if down.Mode != DownPaymentPercent {
		t.Error("Toggle() modified the receiver")
	}

	back := asAmount.Toggle(400000)
	if back.Mode != DownPaymentPercent || math.Abs(back.Percent-20) > 1e-12 {
		t.Errorf("Toggle() round trip = %+v", back)
	}

	zeroBase := DownPayment{Mode: DownPaymentAmount, Amount: 5000}.Toggle(0)
	if zeroBase.Percent != 0 {
		t.Errorf("Toggle() against zero base = %v, expected 0", zeroBase.Percent)
	}
}

func TestDownPaymentResolve(t *testing.T) {
	tests := []struct {
		name     string
		down     DownPayment
		base     float64
		expected float64
	}{
		{"Percent", DownPayment{Mode: DownPaymentPercent, Percent: 20, Amount: 1}, 300000, 60000},
		{"Amount", DownPayment{Mode: DownPaymentAmount, Percent: 20, Amount: 45000}, 300000, 45000},
		{"Unknown mode falls back to percent", DownPayment{Mode: "dollars", Percent: 10}, 300000, 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.down.Resolve(tt.base); got != tt.expected {
				t.Errorf("Resolve() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := Default()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for defaults, got %v", warnings)
	}

	conf.Output.Format = "xml"
	conf.Storage.Backend = "postgres"
	conf.Scenarios.ExistingLoan.DownPayment = DownPayment{Mode: DownPaymentAmount, Amount: 400000}
	conf.Scenarios.HousePrice.TermYears = 0
	conf.Scenarios.HousePrice.InterestRate = -1
	conf.Scenarios.Rental.Years = 0

	warnings := conf.ValidateConfiguration()
	expected := []string{
		"expected output format",
		"storage.postgres.url",
		"existingLoan: down payment",
		"existingLoan: financed principal",
		"housePrice: interest rate is negative",
		"housePrice: term must be positive",
		"rental: years must be positive",
	}
	for _, want := range expected {
		if !containsSubstring(warnings, want) {
			t.Errorf("expected a warning containing %q, got %v", want, warnings)
		}
	}
}

func TestCheckHorizons(t *testing.T) {
	if err := DefaultScenarios().CheckHorizons(); err != nil {
		t.Fatalf("expected defaults to pass, got %v", err)
	}

	atLimit := DefaultScenarios()
	atLimit.Rental.Years = constants.MaxHorizonYears
	atLimit.HousePrice.TermYears = constants.MaxHorizonYears
	if err := atLimit.CheckHorizons(); err != nil {
		t.Fatalf("expected horizons at the limit to pass, got %v", err)
	}

	tooLong := DefaultScenarios()
	tooLong.Rental.Years = 500000000
	tooLong.ExistingLoan.TermYears = constants.MaxHorizonYears + 1
	err := tooLong.CheckHorizons()
	if !errors.Is(err, ErrHorizonTooLong) {
		t.Fatalf("expected ErrHorizonTooLong, got %v", err)
	}
	for _, want := range []string{"rental.years is 500000000", "existingLoan.termYears is 101"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %q", want, err.Error())
		}
	}
	if strings.Contains(err.Error(), "housePrice") {
		t.Errorf("house price term is within bounds, got %q", err.Error())
	}
}

func TestValidateTinyPrincipalWarns(t *testing.T) {
	s := DefaultScenarios()
	s.HousePrice.DownPayment = DownPayment{Mode: DownPaymentAmount, Amount: s.HousePrice.HousePrice - 0.001}

	if !containsSubstring(s.Validate(), "housePrice: financed principal") {
		t.Errorf("expected a warning for a principal under one cent, got %v", s.Validate())
	}
}

func TestScenariosNormalize(t *testing.T) {
	s := DefaultScenarios()
	s.HousePrice.CustomCharges = charges.List{{Name: "HOA", Amount: 100}, {Name: "Lawn", Amount: 40}}

	normalized := s.Normalize()
	if normalized.HousePrice.CustomCharges[0].ID != 1 || normalized.HousePrice.CustomCharges[1].ID != 2 {
		t.Errorf("unexpected IDs %+v", normalized.HousePrice.CustomCharges)
	}
	if s.HousePrice.CustomCharges[0].ID != 0 {
		t.Error("Normalize() modified the receiver")
	}
}

func sameExisting(a, b ExistingLoanScenario) bool {
	return a.LoanAmount == b.LoanAmount && a.ExistingMortgage == b.ExistingMortgage &&
		a.DownPayment == b.DownPayment && a.InterestRate == b.InterestRate && a.TermYears == b.TermYears &&
		a.PropertyTax == b.PropertyTax && a.HomeownersInsurance == b.HomeownersInsurance &&
		len(a.CustomCharges) == len(b.CustomCharges)
}

func sameHouse(a, b HousePriceScenario) bool {
	return a.HousePrice == b.HousePrice && a.DownPayment == b.DownPayment &&
		a.InterestRate == b.InterestRate && a.TermYears == b.TermYears &&
		a.PropertyTax == b.PropertyTax && a.HomeownersInsurance == b.HomeownersInsurance &&
		len(a.CustomCharges) == len(b.CustomCharges)
}

func containsSubstring(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}
