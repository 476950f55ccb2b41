package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corey/siunit/internal/domain/quantity"
	"github.com/corey/siunit/internal/domain/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores flag variables, which cobra keeps between executions.
func resetFlags() {
	configPath, logLevel, showMetrics = "", "", false
	unitsBaseOnly, unitsExcludeSelf = false, false
	integralSpace, integralTime, integralLabel = false, true, false
	vectorTo, vectorStats = "", false
	checkAbove, checkExclusive = false, false
	tableOutput, tableFingerprint = "", false
	storeKind, storeUnit, storeForce = "scalar", "", false
}

// run executes the root command in a fresh project directory per test.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func inProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestConvert(t *testing.T) {
	inProject(t)
	out, _, err := run(t, "convert", "0", "C", "K")
	require.NoError(t, err)
	assert.Equal(t, "273.15 K\n", out)

	_, _, err = run(t, "convert", "1", "m", "s")
	assert.ErrorIs(t, err, unit.ErrIncompatibleUnits)

	_, _, err = run(t, "convert", "abc", "m", "mm")
	assert.Error(t, err)
}

func TestNegativeValuesAfterDoubleDash(t *testing.T) {
	inProject(t)

	_, _, err := run(t, "convert", "-5", "C", "K")
	assert.Error(t, err, "a bare negative value reads as a flag")

	out, _, err := run(t, "convert", "--", "-5", "C", "K")
	require.NoError(t, err)
	assert.Equal(t, "268.15 K\n", out)

	out, _, err = run(t, "vector", "--to", "K", "--", "-5", "10", "C")
	require.NoError(t, err)
	assert.Equal(t, "268.15 283.15 K\n", out)

	_, _, err = run(t, "store", "put", "--kind", "vector", "--", "wall", "Offsets", "-5", "0", "5", "mm")
	require.NoError(t, err)
	out, _, err = run(t, "store", "get", "wall", "Offsets")
	require.NoError(t, err)
	assert.Equal(t, "Offsets = -5 0 5 mm\n", out)
}

func TestVector(t *testing.T) {
	inProject(t)
	out, _, err := run(t, "vector", "100", "150", "180", "cm", "--to", "m")
	require.NoError(t, err)
	assert.Equal(t, "1 1.5 1.8 m\n", out)

	out, _, err = run(t, "vector", "1", "2", "3", "m", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "count   3\n")
	assert.Contains(t, out, "mean    2 m\n")
	assert.Contains(t, out, "max     3 m\n")
}

func TestIntegral(t *testing.T) {
	inProject(t)
	out, _, err := run(t, "integral", "W/m2")
	require.NoError(t, err)
	assert.Equal(t, "J/m2\n", out)

	out, _, err = run(t, "integral", "kg/m3", "--space", "--time=false")
	require.NoError(t, err)
	assert.Equal(t, "kg\n", out)

	out, _, err = run(t, "integral", "--label", "Heat flux [W/m2]")
	require.NoError(t, err)
	assert.Equal(t, "Heat flux [J/m2]\n", out)
}

func TestCheck(t *testing.T) {
	inProject(t)
	out, _, err := run(t, "check", "T = 20 C", "T = 300 K")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, _, err = run(t, "check", "T = 20 C", "T = 300 K", "--above")
	assert.ErrorIs(t, err, quantity.ErrOutOfRange)
}

func TestUnits(t *testing.T) {
	inProject(t)
	out, _, err := run(t, "units", "m", "--exclude-self")
	require.NoError(t, err)
	assert.Equal(t, "mm cm dm\n", out)

	out, _, err = run(t, "units")
	require.NoError(t, err)
	assert.NotContains(t, out, "undefined")
	assert.Contains(t, out, "mm cm dm\n")
}

func TestTable_ProjectOverride(t *testing.T) {
	dir := inProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".siunit"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".siunit", "units.txt"), []byte("undefined; m * 1000 mm;\n"), 0644))

	out, _, err := run(t, "units", "--base")
	require.NoError(t, err)
	assert.Equal(t, "m\n", out)

	reg, err := unit.ParseString("undefined; m * 1000 mm;")
	require.NoError(t, err)
	out, _, err = run(t, "table", "--fingerprint")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%016x 3 units\n", reg.Fingerprint()), out)

	// the printed table parses back to the same registry
	path := filepath.Join(dir, "out.txt")
	_, _, err = run(t, "table", "-o", path)
	require.NoError(t, err)
	back, err := unit.MustDefault().ReadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, reg.Fingerprint(), back.Fingerprint())
}

func TestStore(t *testing.T) {
	inProject(t)

	_, _, err := run(t, "store", "put", "wall", "Thickness", "20", "mm")
	require.NoError(t, err)
	_, _, err = run(t, "store", "put", "wall", "Grid", "0", "5", "10", "cm", "--kind", "vector")
	require.NoError(t, err)
	_, _, err = run(t, "store", "put", "wall", "Layers", "3", "--kind", "int")
	require.NoError(t, err)

	out, _, err := run(t, "store", "get", "wall", "Thickness")
	require.NoError(t, err)
	assert.Equal(t, "Thickness = 20 mm\n", out)

	out, _, err = run(t, "store", "get", "wall", "Thickness", "--unit", "m")
	require.NoError(t, err)
	assert.Equal(t, "Thickness = 0.02 m\n", out)

	out, _, err = run(t, "store", "get", "wall", "Grid", "--unit", "mm")
	require.NoError(t, err)
	assert.Equal(t, "Grid = 0 50 100 mm\n", out)

	out, _, err = run(t, "store", "get", "wall", "Layers")
	require.NoError(t, err)
	assert.Equal(t, "Layers = 3\n", out)

	out, _, err = run(t, "store", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "wall/Grid")
	assert.Contains(t, out, "vector")
	assert.Equal(t, 3, strings.Count(out, "\n"))

	_, _, err = run(t, "store", "rm", "wall", "Grid")
	require.NoError(t, err)
	_, _, err = run(t, "store", "get", "wall", "Grid")
	assert.Error(t, err)

	_, _, err = run(t, "store", "put", "wall", "Bad", "3", "--kind", "blob")
	assert.Error(t, err)

	out, _, err = run(t, "store", "reset", "--force")
	require.NoError(t, err)
	assert.Equal(t, "store reset\n", out)
	out, _, err = run(t, "store", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStore_ResetCancelled(t *testing.T) {
	inProject(t)
	_, _, err := run(t, "store", "put", "wall", "T", "20", "C")
	require.NoError(t, err)

	out, _, err := run(t, "store", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")

	out, _, err = run(t, "store", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "wall/T")
}

func TestMetricsFlag(t *testing.T) {
	inProject(t)
	_, stderr, err := run(t, "--metrics", "convert", "2", "m", "mm")
	require.NoError(t, err)
	assert.Contains(t, stderr, `siunit_conversions_total{op="mul"} 1`)
	assert.Contains(t, stderr, "siunit_values_converted_total 1")
}

func TestLogLevelFlagValidated(t *testing.T) {
	inProject(t)
	_, _, err := run(t, "--log-level", "loud", "convert", "1", "m", "mm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")

	out, _, err := run(t, "--log-level", "debug", "convert", "1", "m", "mm")
	require.NoError(t, err)
	assert.Equal(t, "1000 mm\n", out)
}

func TestConfigFile(t *testing.T) {
	dir := inProject(t)
	cfg := filepath.Join(dir, "siunit.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  precision: 3\n"), 0644))

	out, _, err := run(t, "--config", cfg, "convert", "1", "m", "mm")
	require.NoError(t, err)
	assert.Equal(t, "1000.000 mm\n", out)

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "convert", "1", "m", "mm")
	assert.Error(t, err)
}
