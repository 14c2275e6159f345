package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/housing-calculator/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScenariosCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Manage saved scenarios",
	}

	cmd.AddCommand(
		newScenariosListCommand(a),
		newScenariosSaveCommand(a),
		newScenariosShowCommand(a),
		newScenariosDeleteCommand(a),
		newScenariosExportCommand(a),
		newScenariosImportCommand(a),
		newScenariosChargesCommand(a),
		newScenariosDownPaymentCommand(a),
	)
	return cmd
}

// withStore opens the configured storage for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(*storage.Repository) error) error {
	repo, closeStore, err := storage.Open(ctx, a.conf.Storage, a.logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Warn("failed to close storage",
				zap.String("op", "commands.withStore"),
				zap.Error(err),
			)
		}
	}()
	return fn(repo)
}

func newScenariosListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
				all, err := repo.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					_, err := fmt.Fprintln(out, "No saved scenarios")
					return err
				}
				for _, s := range all {
					if _, err := fmt.Fprintf(out, "%-36s  %-20s  %s\n", s.ID, s.SavedAt.Format(time.RFC3339), s.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newScenariosSaveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME",
		Short: "Save the configured scenarios under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
				saved, err := repo.Save(cmd.Context(), args[0], a.conf.Scenarios)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %q as %s\n", saved.Name, saved.ID)
				return err
			})
		},
	}
}

func newScenariosShowCommand(a *app) *cobra.Command {
	var (
		outputFormat string
		schedule     bool
	)

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the comparison for a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := a.outputFormat(outputFormat)
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
				saved, err := repo.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.writeComparison(cmd, saved.Data, outFormat, schedule)
			})
		},
	}

	addOutputFlags(cmd, &outputFormat, &schedule)
	return cmd
}

func newScenariosDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
				if err := repo.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return err
			})
		},
	}
}

func newScenariosExportCommand(a *app) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all saved scenarios to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
				export := repo.Export
				if asYAML {
					export = repo.ExportYAML
				}
				data, err := export(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if _, err := out.Write(data); err != nil {
					return err
				}
				if !asYAML {
					_, err = fmt.Fprintln(out)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "export as YAML instead of JSON")
	return cmd
}

func newScenariosImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge scenarios from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return a.withStore(cmd.Context(), func(repo *storage.Repository) error {
				count, err := repo.Import(cmd.Context(), data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported scenarios, %d saved in total\n", count)
				return err
			})
		},
	}
}
