// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/housing-calculator/internal/scenario"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/format"
	"github.com/iwvelando/housing-calculator/pkg/loans"
	"github.com/iwvelando/housing-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders c to w in the named output format.
func Write(w io.Writer, outputFormat string, c scenario.Comparison) error {
	switch outputFormat {
	case "", constants.OutputFormatPretty:
		return PrettyFormat(w, c)
	case constants.OutputFormatCSV:
		return CsvFormat(w, c)
	case constants.OutputFormatJSON:
		return JSONFormat(w, c)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, c scenario.Comparison) error {
	p := message.NewPrinter(language.English)
	var buf bytes.Buffer

	for _, result := range []scenario.MortgageResult{c.ExistingLoan, c.HousePrice} {
		writeMortgage(p, &buf, result)
		buf.WriteString("\n")
	}
	writeRental(p, &buf, c.Rental)
	buf.WriteString("\n")

	_, _ = p.Fprintf(&buf, "Lowest lifetime cost: %s (%s)\n", c.Cheapest.Name(), format.Currency(c.TotalCost(c.Cheapest)))
	if len(c.Warnings) > 0 {
		buf.WriteString("\nWarnings:\n")
		for _, warning := range c.Warnings {
			_, _ = p.Fprintf(&buf, "  - %s\n", warning)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeMortgage(p *message.Printer, buf *bytes.Buffer, r scenario.MortgageResult) {
	_, _ = p.Fprintf(buf, "--- %s ---\n", r.Name)
	line := func(label, value string) {
		_, _ = fmt.Fprintf(buf, "%-26s %s\n", label, value)
	}
	line("Total loan amount", format.Currency(r.TotalLoanAmount))
	line("Down payment", format.Currency(r.DownPayment))
	line("Loan principal", format.Currency(r.Principal))
	line("Interest rate", format.Percent(r.InterestRate))
	line("Term", p.Sprintf("%d years", r.TermYears))
	line("Principal & interest", format.Currency(r.MonthlyPrincipalAndInterest))
	line("Property tax", format.Currency(r.PropertyTax))
	line("Homeowners insurance", format.Currency(r.HomeownersInsurance))
	for _, charge := range r.CustomCharges {
		line("  "+charge.Name, format.Currency(charge.Amount))
	}
	line("Total monthly payment", format.Currency(r.TotalMonthlyPayment))
	line("Total interest", format.Currency(r.TotalInterest))
	line("Total cost with charges", format.Currency(r.TotalCostWithCharges))

	if len(r.Schedule) > 0 {
		buf.WriteString("\nMonth | Payment | Principal | Interest | Balance\n")
		buf.WriteString("_____ | _______ | _________ | ________ | _______\n")
		for _, row := range r.Schedule {
			_, _ = p.Fprintf(buf, "%5d | %s | %s | %s | %s\n", row.Month,
				format.Currency(row.Payment), format.Currency(row.Principal),
				format.Currency(row.Interest), format.Currency(row.Balance))
		}
	}
}

func writeRental(p *message.Printer, buf *bytes.Buffer, r scenario.RentalResult) {
	_, _ = p.Fprintf(buf, "--- %s ---\n", r.Name)
	line := func(label, value string) {
		_, _ = fmt.Fprintf(buf, "%-26s %s\n", label, value)
	}
	line("Monthly rent", format.Currency(r.MonthlyRent))
	line("Renters insurance", format.Currency(r.RentersInsurance))
	line("Yearly increase", format.Percent(r.YearlyIncrease))
	line("Total monthly payment", format.Currency(r.TotalMonthlyPayment))

	if len(r.Breakdown) > 0 {
		buf.WriteString("\nYear | Monthly rent | Monthly total | Yearly cost\n")
		buf.WriteString("____ | ____________ | _____________ | ___________\n")
		for _, row := range r.Breakdown {
			_, _ = p.Fprintf(buf, "%4d | %s | %s | %s\n", row.Year,
				format.Currency(row.MonthlyRent), format.Currency(row.TotalMonthly), format.Currency(row.YearlyCost))
		}
		buf.WriteString("\n")
	}
	line(p.Sprintf("Total cost (%d years)", r.Years), format.Currency(r.TotalCost))
}

// CsvFormat outputs in comma-separated value format: one summary row per
// scenario, followed by the sampled schedules when they were computed.
func CsvFormat(w io.Writer, c scenario.Comparison) error {
	cw := csv.NewWriter(w)

	records := [][]string{{
		"scenario", "principal", "interest rate", "term years",
		"monthly principal and interest", "monthly charges", "total monthly payment",
		"total interest", "total cost",
	}}
	for _, r := range []scenario.MortgageResult{c.ExistingLoan, c.HousePrice} {
		records = append(records, []string{
			r.Name, amount(r.Principal), amount(r.InterestRate), strconv.Itoa(r.TermYears),
			amount(r.MonthlyPrincipalAndInterest), amount(r.StaticCharges), amount(r.TotalMonthlyPayment),
			amount(r.TotalInterest), amount(r.TotalCostWithCharges),
		})
	}
	records = append(records, []string{
		c.Rental.Name, "", "", strconv.Itoa(c.Rental.Years),
		"", "", amount(c.Rental.TotalMonthlyPayment),
		"", amount(c.Rental.TotalCost),
	})

	if hasSchedule(c) {
		records = append(records, []string{}, []string{"scenario", "month", "payment", "principal", "interest", "balance"})
		for _, r := range []scenario.MortgageResult{c.ExistingLoan, c.HousePrice} {
			records = append(records, scheduleRecords(r.Name, r.Schedule)...)
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// CsvString returns the CSV rendering of c.
func CsvString(c scenario.Comparison) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, c); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat outputs the comparison as indented JSON.
func JSONFormat(w io.Writer, c scenario.Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

func hasSchedule(c scenario.Comparison) bool {
	return len(c.ExistingLoan.Schedule) > 0 || len(c.HousePrice.Schedule) > 0
}

func scheduleRecords(name string, rows []loans.AmortizationRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			name, strconv.Itoa(row.Month), amount(row.Payment),
			amount(row.Principal), amount(row.Interest), amount(row.Balance),
		})
	}
	return records
}

func amount(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', constants.CurrencyPlaces, 64)
}
