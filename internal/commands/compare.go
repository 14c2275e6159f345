package commands

import (
	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/internal/scenario"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/format"
	"github.com/iwvelando/housing-calculator/pkg/output"
	"github.com/iwvelando/housing-calculator/pkg/validation"
	"github.com/spf13/cobra"
)

func newCompareCommand(a *app) *cobra.Command {
	var (
		outputFormat string
		schedule     bool
		loanAmount   string
		housePrice   string
		monthlyRent  string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the existing-loan, house-price and rental scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.conf.Scenarios
			if flagChanged(cmd, "loan-amount") {
				s.ExistingLoan.LoanAmount = format.ParseCurrency(loanAmount)
			}
			if flagChanged(cmd, "house-price") {
				s.HousePrice.HousePrice = format.ParseCurrency(housePrice)
			}
			if flagChanged(cmd, "monthly-rent") {
				s.Rental.MonthlyRent = format.ParseCurrency(monthlyRent)
			}

			outFormat, err := a.outputFormat(outputFormat)
			if err != nil {
				return err
			}

			return a.writeComparison(cmd, s, outFormat, schedule)
		},
	}

	addOutputFlags(cmd, &outputFormat, &schedule)
	cmd.Flags().StringVar(&loanAmount, "loan-amount", "", "new loan amount override (e.g. $300,000)")
	cmd.Flags().StringVar(&housePrice, "house-price", "", "house price override (e.g. $400,000)")
	cmd.Flags().StringVar(&monthlyRent, "monthly-rent", "", "monthly rent override (e.g. $2,000)")

	return cmd
}

func addOutputFlags(cmd *cobra.Command, outputFormat *string, schedule *bool) {
	cmd.Flags().StringVar(outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	cmd.Flags().BoolVar(schedule, "schedule", false, "include the yearly amortization schedule")
}

// outputFormat resolves the flag override against the configured format.
func (a *app) outputFormat(override string) (string, error) {
	outFormat := a.conf.Output.Format
	if override != "" {
		outFormat = override
	}
	if outFormat == "" {
		outFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outFormat); err != nil {
		return "", err
	}
	return outFormat, nil
}

// writeComparison runs the comparison for s and renders it in outFormat.
func (a *app) writeComparison(cmd *cobra.Command, s config.Scenarios, outFormat string, schedule bool) error {
	if err := s.CheckHorizons(); err != nil {
		return err
	}
	opts := scenario.Options{IncludeSchedule: schedule || a.conf.Output.Schedule}
	comparison := scenario.Compare(a.logger, s, opts)
	return output.Write(cmd.OutOrStdout(), outFormat, comparison)
}
