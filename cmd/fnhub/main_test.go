package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
  "transactions": [
    {"id": "t1", "amount": "1000", "type": "income", "category": "Зарплата", "date": "2024-02-01"},
    {"id": "t2", "amount": "100", "type": "expense", "category": "Продукты", "date": "2024-02-10"},
    {"id": "t3", "amount": "1000", "type": "income", "category": "Зарплата", "date": "2024-03-01"},
    {"id": "t4", "amount": "150", "type": "expense", "category": "Продукты", "date": "2024-03-05"},
    {"id": "t5", "amount": "200", "type": "investment", "category": "Акции", "date": "2024-03-06"}
  ],
  "categories": [
    {"id": "c1", "name": "Продукты", "type": "expense", "color": "#FF5252"},
    {"id": "c2", "name": "Зарплата", "type": "income", "color": "#00E676"},
    {"id": "c3", "name": "Акции", "type": "investment", "color": "#FFD600"}
  ],
  "goals": [
    {"id": "g1", "title": "Отпуск", "targetAmount": "1000", "currentAmount": "250", "endDate": "2024-12-31", "timeframe": "short"}
  ],
  "budgets": [
    {"id": "b1", "name": "Бюджет Март 2024", "month": "03/2024", "year": "2024", "totalBudget": "200",
     "items": [{"id": "i1", "category": "Продукты", "budgetAmount": "200", "month": "03/2024", "year": "2024"}]}
  ],
  "investments": [
    {"id": "inv1", "name": "ETF", "type": "stock", "amount": "200", "currentValue": "220", "purchaseDate": "2024-03-06", "riskLevel": "medium"}
  ]
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "fnhub", root.Use)
	assert.Contains(t, root.Short, "finance")

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"summary", "report", "predict", "budget", "goals", "investments", "dashboard", "chart"} {
		assert.Contains(t, names, want)
	}
}

func TestSnapshotRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := run(t, "summary")
	assert.ErrorContains(t, err, "--snapshot is required")
}

func TestInvalidAsOf(t *testing.T) {
	path := writeSnapshot(t)
	_, err := run(t, "summary", "--snapshot", path, "--as-of", "15.03.2024")
	assert.ErrorContains(t, err, "invalid --as-of")
}

func TestSummaryJSON(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "summary", "--snapshot", path, "--as-of", "2024-03-15", "--json")
	require.NoError(t, err)

	var got struct {
		Summary struct {
			CurrentBalance string `json:"currentBalance"`
			Investments    string `json:"investments"`
		} `json:"summary"`
		Monthly []struct {
			Period string `json:"period"`
		} `json:"monthly"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1550", got.Summary.CurrentBalance)
	assert.Equal(t, "200", got.Summary.Investments)
	require.Len(t, got.Monthly, 2)
	assert.Equal(t, "2/2024", got.Monthly[0].Period)
	assert.Equal(t, "3/2024", got.Monthly[1].Period)
}

func TestSummaryText(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "summary", "--snapshot", path, "--as-of", "2024-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance:")
	assert.Contains(t, out, "03/2024")
}

func TestReport(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "report", "month", "--snapshot", path, "--as-of", "2024-03-15", "--json")
	require.NoError(t, err)

	var got struct {
		Period  string `json:"period"`
		Current struct {
			Expenses string `json:"expenses"`
		} `json:"current"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Март 2024", got.Period)
	assert.Equal(t, "150", got.Current.Expenses)

	_, err = run(t, "report", "century", "--snapshot", path)
	assert.Error(t, err)
}

func TestPredict(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "predict", "--snapshot", path, "--as-of", "2024-03-15", "--json")
	require.NoError(t, err)

	var got struct {
		Predictions []struct {
			Category   string `json:"category"`
			Trend      string `json:"trend"`
			Percentage int    `json:"percentage"`
		} `json:"predictions"`
		Alerts []struct {
			Category string `json:"category"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Predictions, 1)
	assert.Equal(t, "Продукты", got.Predictions[0].Category)
	assert.Equal(t, "increase", got.Predictions[0].Trend)
	assert.Equal(t, 50, got.Predictions[0].Percentage)
	require.Len(t, got.Alerts, 1)

	text, err := run(t, "predict", "--snapshot", path, "--as-of", "2024-03-15")
	require.NoError(t, err)
	assert.Contains(t, text, "ALERT: Продукты")
}

func TestBudgetAndGoals(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "budget", "--snapshot", path, "--as-of", "2024-03-15", "--json")
	require.NoError(t, err)

	var budget struct {
		OverallPercentage int `json:"overallPercentage"`
		Lines             []struct {
			Level string `json:"level"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &budget))
	assert.Equal(t, 75, budget.OverallPercentage)
	require.Len(t, budget.Lines, 1)
	assert.Equal(t, "warning", budget.Lines[0].Level)

	text, err := run(t, "budget", "--snapshot", path, "--as-of", "2024-03-15")
	require.NoError(t, err)
	assert.Contains(t, text, "Бюджет Март 2024 (03/2024)")
	assert.Contains(t, text, "warning")

	out, err = run(t, "goals", "--snapshot", path, "--as-of", "2024-03-15", "--json")
	require.NoError(t, err)
	var goals []struct {
		Percent int    `json:"percent"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, 25, goals[0].Percent)
	assert.Equal(t, "behind", goals[0].Status)
}

func TestInvestments(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "investments", "--snapshot", path, "--json")
	require.NoError(t, err)

	var perf struct {
		AbsoluteReturn string `json:"absoluteReturn"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &perf))
	assert.Equal(t, "20", perf.AbsoluteReturn)

	t.Setenv("FNHUB_FEATURES_INVESTMENTS", "false")
	_, err = run(t, "investments", "--snapshot", path)
	assert.ErrorContains(t, err, "investments are disabled")
}

func TestDashboard(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "dashboard", "--snapshot", path, "--as-of", "2024-03-15")
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	for _, key := range []string{"summary", "monthly", "daily", "predictions", "budget", "goals", "investments"} {
		assert.Contains(t, got, key)
	}
}

func TestChart(t *testing.T) {
	path := writeSnapshot(t)
	target := filepath.Join(filepath.Dir(path), "trends.png")

	out, err := run(t, "chart", "trends", "--snapshot", path, "--as-of", "2024-03-15", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = run(t, "chart", "expenses", "--snapshot", path, "--as-of", "2024-05-15")
	assert.ErrorContains(t, err, "not enough data")

	_, err = run(t, "chart", "radar", "--snapshot", path)
	assert.ErrorContains(t, err, "unknown chart")
}
