package commands

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/internal/scenario"
	"github.com/iwvelando/housing-calculator/internal/storage"
	"github.com/iwvelando/housing-calculator/pkg/charges"
	"github.com/iwvelando/housing-calculator/pkg/format"
	"github.com/spf13/cobra"
)

func addMortgageFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "scenario", string(scenario.KindHousePrice),
		"mortgage scenario to edit: existing-loan, house-price")
}

// editCharges applies fn to the custom charges of the selected mortgage.
func editCharges(s config.Scenarios, target string, fn func(charges.List) (charges.List, error)) (config.Scenarios, error) {
	var err error
	switch scenario.Kind(target) {
	case scenario.KindExistingLoan:
		s.ExistingLoan.CustomCharges, err = fn(s.ExistingLoan.CustomCharges)
	case scenario.KindHousePrice:
		s.HousePrice.CustomCharges, err = fn(s.HousePrice.CustomCharges)
	default:
		return s, fmt.Errorf("unknown mortgage scenario %q", target)
	}
	return s, err
}

func newScenariosChargesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charges",
		Short: "Edit the custom monthly charges of a saved scenario",
	}
	cmd.AddCommand(
		newChargesAddCommand(a),
		newChargesUpdateCommand(a),
		newChargesRemoveCommand(a),
	)
	return cmd
}

func newChargesAddCommand(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "add ID NAME AMOUNT",
		Short: "Add a monthly charge",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var added charges.Charge
			return a.updateScenario(cmd, args[0], func(s config.Scenarios) (config.Scenarios, error) {
				return editCharges(s, target, func(l charges.List) (charges.List, error) {
					var out charges.List
					out, added = l.Add(args[1], format.ParseCurrency(args[2]))
					return out, nil
				})
			}, func() string {
				return fmt.Sprintf("Added charge %d (%s, %s) to %s", added.ID, added.Name, format.Currency(added.Amount), target)
			})
		},
	}

	addMortgageFlag(cmd, &target)
	return cmd
}

func newChargesUpdateCommand(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "update ID CHARGE_ID NAME AMOUNT",
		Short: "Replace the name and amount of a monthly charge",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			chargeID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid charge id %q: %w", args[1], err)
			}
			return a.updateScenario(cmd, args[0], func(s config.Scenarios) (config.Scenarios, error) {
				return editCharges(s, target, func(l charges.List) (charges.List, error) {
					return l.Update(chargeID, args[2], format.ParseCurrency(args[3]))
				})
			}, func() string {
				return fmt.Sprintf("Updated charge %d of %s", chargeID, target)
			})
		},
	}

	addMortgageFlag(cmd, &target)
	return cmd
}

func newChargesRemoveCommand(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "remove ID CHARGE_ID",
		Short: "Remove a monthly charge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chargeID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid charge id %q: %w", args[1], err)
			}
			return a.updateScenario(cmd, args[0], func(s config.Scenarios) (config.Scenarios, error) {
				return editCharges(s, target, func(l charges.List) (charges.List, error) {
					return l.Remove(chargeID)
				})
			}, func() string {
				return fmt.Sprintf("Removed charge %d from %s", chargeID, target)
			})
		},
	}

	addMortgageFlag(cmd, &target)
	return cmd
}

func newScenariosDownPaymentCommand(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "down-payment ID",
		Short: "Switch a saved down payment between percent and amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var toggled config.DownPayment
			return a.updateScenario(cmd, args[0], func(s config.Scenarios) (config.Scenarios, error) {
				switch scenario.Kind(target) {
				case scenario.KindExistingLoan:
					s.ExistingLoan.DownPayment = s.ExistingLoan.DownPayment.Toggle(s.ExistingLoan.TotalLoanAmount())
					toggled = s.ExistingLoan.DownPayment
				case scenario.KindHousePrice:
					s.HousePrice.DownPayment = s.HousePrice.DownPayment.Toggle(s.HousePrice.HousePrice)
					toggled = s.HousePrice.DownPayment
				default:
					return s, fmt.Errorf("unknown mortgage scenario %q", target)
				}
				return s, nil
			}, func() string {
				if toggled.Mode == config.DownPaymentAmount {
					return fmt.Sprintf("Down payment for %s is now an amount of %s", target, format.Currency(toggled.Amount))
				}
				return fmt.Sprintf("Down payment for %s is now %s", target, format.Percent(toggled.Percent))
			})
		},
	}

	addMortgageFlag(cmd, &target)
	return cmd
}

// updateScenario edits the saved scenario id and prints the message built by
// done once the change is stored.
func (a *app) updateScenario(cmd *cobra.Command, id string, edit func(config.Scenarios) (config.Scenarios, error), done func() string) error {
	return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
		if _, err := repo.Update(cmd.Context(), id, edit); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), done())
		return err
	})
}
