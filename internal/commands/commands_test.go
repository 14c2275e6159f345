package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/internal/scenario"
	"github.com/iwvelando/housing-calculator/internal/storage"
	"github.com/iwvelando/housing-calculator/pkg/charges"
	"github.com/iwvelando/housing-calculator/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig creates a configuration file that keeps logs quiet and stores
// scenarios under a temporary directory.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "housing-calculator.yaml")
	contents := "logging:\n  level: error\n  format: json\n" +
		"storage:\n  backend: file\n  path: " + filepath.Join(dir, "scenarios") + "\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompareJSON(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "compare", "--config", cfg, "--output-format", "json")
	require.NoError(t, err)

	var comparison scenario.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &comparison))
	assert.InDelta(t, 1516.96, comparison.ExistingLoan.MonthlyPrincipalAndInterest, 0.01)
	assert.InDelta(t, 1062664.88, comparison.Rental.TotalCost, 0.01)
	assert.Equal(t, scenario.KindExistingLoan, comparison.Cheapest)
	assert.Empty(t, comparison.ExistingLoan.Schedule)
}

func TestCompareOverrides(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "compare", "--config", cfg, "--output-format", "json", "--schedule",
		"--loan-amount", "$250,000", "--house-price", "500,000", "--monthly-rent", "$1,500.50")
	require.NoError(t, err)

	var comparison scenario.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &comparison))
	assert.InDelta(t, 250000.0, comparison.ExistingLoan.TotalLoanAmount, 1e-9)
	assert.InDelta(t, 500000.0, comparison.HousePrice.TotalLoanAmount+comparison.HousePrice.DownPayment, 1e-9)
	assert.InDelta(t, 1500.50, comparison.Rental.MonthlyRent, 1e-9)
	assert.Len(t, comparison.ExistingLoan.Schedule, 31)
}

func TestCompareUsesConfiguredScenarios(t *testing.T) {
	cfg := writeConfig(t, `output:
  format: csv
scenarios:
  rental:
    monthlyRent: 900
    yearlyIncrease: 0
`)

	out, err := run(t, "compare", "--config", cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "scenario,principal"), out)
	assert.Contains(t, out, "Rental,,,30,,,925.00,,333000.00")
}

func TestComparePrettyByDefault(t *testing.T) {
	out, err := run(t, "compare", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "--- Existing Loan + New Loan ---")
}

func TestCompareRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "compare", "--config", writeConfig(t, ""), "--output-format", "xml")
	assert.Error(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := run(t, "compare", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvFileOverridesScenario(t *testing.T) {
	t.Setenv("HOUSING_SCENARIOS_RENTAL_MONTHLYRENT", "")
	require.NoError(t, os.Unsetenv("HOUSING_SCENARIOS_RENTAL_MONTHLYRENT"))

	envFile := testutil.WriteFile(t, "test.env", "HOUSING_SCENARIOS_RENTAL_MONTHLYRENT=1234\n")

	out, err := run(t, "compare", "--config", writeConfig(t, ""), "--env-file", envFile, "--output-format", "json")
	require.NoError(t, err)

	var comparison scenario.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &comparison))
	assert.InDelta(t, 1234.0, comparison.Rental.MonthlyRent, 1e-9)
}

func TestExplicitEnvFileMustExist(t *testing.T) {
	_, err := run(t, "compare", "--config", writeConfig(t, ""), "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestScenariosLifecycle(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "scenarios", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved scenarios")

	out, err = run(t, "scenarios", "save", "Baseline", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `Saved "Baseline" as `)
	id := strings.TrimSpace(out[strings.LastIndex(out, " ")+1:])
	require.NotEmpty(t, id)

	out, err = run(t, "scenarios", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Baseline")

	out, err = run(t, "scenarios", "show", id, "--config", cfg, "--output-format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Existing Loan + New Loan")

	out, err = run(t, "scenarios", "export", "--config", cfg)
	require.NoError(t, err)
	var exported []storage.SavedScenario
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, id, exported[0].ID)

	out, err = run(t, "scenarios", "export", "--yaml", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Baseline")

	backup := testutil.WriteFile(t, "backup.json", `[{"name": "Imported"}]`)
	out, err = run(t, "scenarios", "import", backup, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "2 saved in total")

	out, err = run(t, "scenarios", "delete", id, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	_, err = run(t, "scenarios", "show", id, "--config", cfg)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = run(t, "scenarios", "delete", id, "--config", cfg)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestScenarioEdits(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "scenarios", "save", "Editable", "--config", cfg)
	require.NoError(t, err)
	id := strings.TrimSpace(out[strings.LastIndex(out, " ")+1:])

	out, err = run(t, "scenarios", "charges", "add", id, "HOA", "$250", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Added charge 1 (HOA, $250.00) to house-price")

	out, err = run(t, "scenarios", "charges", "add", id, "PMI", "90", "--scenario", "existing-loan", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Added charge 1 (PMI, $90.00) to existing-loan")

	out, err = run(t, "scenarios", "charges", "update", id, "1", "HOA", "300", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated charge 1 of house-price")

	out, err = run(t, "scenarios", "down-payment", id, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Down payment for house-price is now an amount of $80,000.00")

	out, err = run(t, "scenarios", "export", "--config", cfg)
	require.NoError(t, err)
	var exported []storage.SavedScenario
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 1)
	house := exported[0].Data.HousePrice
	require.Len(t, house.CustomCharges, 1)
	assert.Equal(t, "HOA", house.CustomCharges[0].Name)
	assert.InDelta(t, 300.0, house.CustomCharges[0].Amount, 1e-9)
	assert.Equal(t, config.DownPaymentAmount, house.DownPayment.Mode)
	assert.InDelta(t, 80000.0, house.DownPayment.Amount, 1e-9)
	require.Len(t, exported[0].Data.ExistingLoan.CustomCharges, 1)

	out, err = run(t, "scenarios", "down-payment", id, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Down payment for house-price is now 20%")

	out, err = run(t, "scenarios", "charges", "remove", id, "1", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed charge 1 from house-price")

	_, err = run(t, "scenarios", "charges", "remove", id, "1", "--config", cfg)
	assert.ErrorIs(t, err, charges.ErrNotFound)
	_, err = run(t, "scenarios", "charges", "remove", id, "one", "--config", cfg)
	assert.Error(t, err)
	_, err = run(t, "scenarios", "charges", "add", id, "HOA", "1", "--scenario", "rental", "--config", cfg)
	assert.Error(t, err)
	_, err = run(t, "scenarios", "down-payment", "missing", "--config", cfg)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCompareRejectsLongHorizon(t *testing.T) {
	cfg := writeConfig(t, `scenarios:
  rental:
    years: 500000000
`)

	_, err := run(t, "compare", "--config", cfg)
	assert.ErrorIs(t, err, config.ErrHorizonTooLong)
}

func TestComparePrettyNonFinite(t *testing.T) {
	cfg := writeConfig(t, `scenarios:
  existingLoan:
    interestRate: 1e-17
`)

	out, err := run(t, "compare", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Infinity")
	assert.Contains(t, out, "not a finite number")
}

func TestScenariosImportMissingFile(t *testing.T) {
	_, err := run(t, "scenarios", "import", filepath.Join(t.TempDir(), "none.json"), "--config", writeConfig(t, ""))
	assert.Error(t, err)
}

func TestServeRejectsBadServerConfig(t *testing.T) {
	path := testutil.WriteFile(t, "server.yaml", "maxBodySize: lots")

	_, err := run(t, "serve", "--config", writeConfig(t, ""), "--server-config", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
