package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/phasecurve"
	"github.com/arloliu/phasecurve/chart"
	"github.com/arloliu/phasecurve/config"
	"github.com/arloliu/phasecurve/table"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	return executeWith(t, func(string) error {
		t.Fatal("unexpected chart display")
		return nil
	}, args...)
}

func executeWith(t *testing.T, opener chart.Opener, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := newCommand(opener)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return buf.String(), err
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data", "raw", "population.csv")

	stdout, err := execute(t, "generate", "--out", out, "--no-chart")
	require.NoError(t, err)
	require.Contains(t, stdout, "Dataset saved to: "+out)
	require.Contains(t, stdout, "(222 rows)")

	s, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, s, 222)
}

func TestGenerateCmd_DedupeAndChart(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "population.csv.zst")
	chartPath := filepath.Join(dir, "population.svg")

	stdout, err := execute(t, "generate", "--out", out, "--chart", chartPath, "--dedupe", "--parallel")
	require.NoError(t, err)
	require.Contains(t, stdout, "(218 rows)")
	require.Contains(t, stdout, "Chart saved to: "+chartPath)

	_, err = os.Stat(chartPath)
	require.NoError(t, err)
}

func TestGenerateCmd_FromConfig(t *testing.T) {
	dir := t.TempDir()
	f := config.Default()
	f.Output.Table = filepath.Join(dir, "from-config.csv")
	f.Output.Chart = filepath.Join(dir, "from-config.svg")
	data, err := config.Marshal(f)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "phasecurve.yaml")
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	_, err = execute(t, "generate", "--config", cfgPath)
	require.NoError(t, err)

	_, err = os.Stat(f.Output.Table)
	require.NoError(t, err)
	_, err = os.Stat(f.Output.Chart)
	require.NoError(t, err)
}

func TestGenerateCmd_InvalidRateRule(t *testing.T) {
	_, err := execute(t, "generate", "--out", filepath.Join(t.TempDir(), "x.csv"), "--rate-rule", "fastest")
	require.Error(t, err)
}

func TestInspectCmd(t *testing.T) {
	stdout, err := execute(t, "inspect")
	require.NoError(t, err)
	require.Contains(t, stdout, "PHASE")
	require.Contains(t, stdout, "rows: 222")
	require.Contains(t, stdout, "fingerprint:")
	require.Contains(t, stdout, "P = ")

	stdout, err = execute(t, "inspect", "--dedupe")
	require.NoError(t, err)
	require.Contains(t, stdout, "rows: 218")
	require.Contains(t, stdout, "duplicated years: []")
}

func TestGenerateCmd_Display(t *testing.T) {
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "population.svg")

	var opened []string
	_, err := executeWith(t, func(path string) error {
		opened = append(opened, path)
		return nil
	}, "generate", "--out", filepath.Join(dir, "population.csv"), "--chart", chartPath, "--display")
	require.NoError(t, err)
	require.Equal(t, []string{chartPath}, opened)
}

func TestGenerateCmd_DisplayFailureKeepsTable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "population.csv")

	stdout, err := executeWith(t, func(string) error {
		return errors.New("no viewer")
	}, "generate", "--out", out, "--chart", filepath.Join(dir, "population.svg"), "--display")
	require.Error(t, err)
	require.True(t, phasecurve.IsDisplayError(err))
	require.Contains(t, stdout, "Dataset saved to: "+out)

	s, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, s, 222)
}

func TestRateRuleCmds(t *testing.T) {
	stdout, err := execute(t, "inspect")
	require.NoError(t, err)
	require.NotContains(t, stdout, "--0.")

	dir := t.TempDir()
	out := filepath.Join(dir, "legacy.csv")
	_, err = execute(t, "generate", "--out", out, "--no-chart", "--rate-rule", "legacy")
	require.NoError(t, err)

	s, err := table.Read(out)
	require.NoError(t, err)
	last := s.Between(1990, 1990)
	require.Len(t, last, 2)
	// The legacy rate ends the 1920-1990 phase far below the 237,500 anchor.
	require.InDelta(t, 853.2, last[0].Value, 0.5)
	require.InDelta(t, 237_500, last[1].Value, 1e-6)
}

func TestDefaultsCmd(t *testing.T) {
	stdout, err := execute(t, "defaults")
	require.NoError(t, err)
	require.Contains(t, stdout, "# rate_rule:")
	require.Contains(t, stdout, `"legacy"`)

	f, err := config.Parse([]byte(stdout))
	require.NoError(t, err)
	require.Equal(t, config.Default(), f)
}
