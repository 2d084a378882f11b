package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ivanoskov/fnhub/internal/charts"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/service"
	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func (e *env) dashboard(ctx context.Context) (*service.Dashboard, error) {
	return e.tracker.Dashboard(ctx, cliUser, e.asOf)
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balance and monthly totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			d, err := e.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, struct {
					Summary service.BalanceSummary `json:"summary"`
					Monthly []service.MonthBucket  `json:"monthly"`
				}{d.Summary, d.Monthly})
			}

			f := e.formatter
			fmt.Fprintf(out, "Balance:      %s\n", f.SignedMoney(d.Summary.CurrentBalance))
			fmt.Fprintf(out, "Income:       %s\n", f.Money(d.Summary.Income))
			fmt.Fprintf(out, "Expenses:     %s\n", f.Money(d.Summary.Expenses))
			fmt.Fprintf(out, "Investments:  %s\n\n", f.Money(d.Summary.Investments))

			tw := newTable(out)
			fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSES\tINVESTMENTS\tNET")
			for _, m := range d.Monthly {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Month(m.Period),
					f.Money(m.Income), f.Money(m.Expenses), f.Money(m.Investments), f.SignedMoney(m.NetFlow()))
			}
			return tw.Flush()
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "report [day|week|month|year]",
		Short:     "Show a period report compared with the previous period",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month", "year"},
		RunE: func(cmd *cobra.Command, args []string) error {
			period := ""
			if len(args) == 1 {
				period = args[0]
			}
			reportType, err := service.ParseReportType(period)
			if err != nil {
				return err
			}
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			report, err := e.tracker.GetReport(cmd.Context(), cliUser, reportType, e.asOf)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, report)
			}

			f := e.formatter
			cur := report.Current
			fmt.Fprintf(out, "Report: %s\n", report.Period)
			fmt.Fprintf(out, "Income:       %s (%s)\n", f.Money(cur.Income), f.PercentDecimal(report.Comparison.IncomeChange))
			fmt.Fprintf(out, "Expenses:     %s (%s)\n", f.Money(cur.Expenses), f.PercentDecimal(report.Comparison.ExpenseChange))
			fmt.Fprintf(out, "Balance:      %s\n", f.SignedMoney(cur.CurrentBalance))
			fmt.Fprintf(out, "Savings rate: %s\n\n", f.PercentDecimal(cur.SavingsRate))

			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE\tCOUNT")
			for _, s := range cur.ExpenseCategories {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Name, f.Money(s.Amount), f.PercentDecimal(s.Share), s.Count)
			}
			return tw.Flush()
		},
	}
}

func newPredictCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict next month spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			d, err := e.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, struct {
					Predictions []service.CategoryPrediction `json:"predictions"`
					Alerts      []service.CategoryPrediction `json:"alerts"`
				}{d.Predictions, d.Alerts})
			}
			if len(d.Predictions) == 0 {
				fmt.Fprintln(out, "Not enough data: spending for at least two months is required.")
				return nil
			}

			f := e.formatter
			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tACTUAL\tPREVIOUS\tPREDICTED\tTREND\tCHANGE")
			for _, p := range d.Predictions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Category, f.Money(p.ActualAmount),
					f.Money(p.PreviousAmount), f.Money(p.PredictedAmount), p.Trend, f.Percent(p.Percentage))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, a := range d.Alerts {
				fmt.Fprintf(out, "ALERT: %s is up %s\n", a.Category, f.Percent(a.Percentage))
			}
			return nil
		},
	}
}

func newBudgetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Show utilization of the budget active on --as-of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if !e.tracker.Analyzer().Features().Budgets {
				return errors.New("budgets are disabled")
			}
			d, err := e.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, d.Budget)
			}
			if d.Budget == nil {
				fmt.Fprintf(out, "No budget for %s\n", e.formatter.Month(model.MonthOf(e.asOf)))
				return nil
			}

			f := e.formatter
			p := d.Budget
			fmt.Fprintf(out, "%s (%s)\n\n", p.Name, f.Month(p.Period))
			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tBUDGETED\tSPENT\tUSED\tLEVEL")
			for _, line := range p.Lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", line.Category, f.Money(line.Budgeted),
					f.Money(line.Spent), f.Percent(line.Percentage), line.Level)
			}
			fmt.Fprintf(tw, "TOTAL\t%s\t%s\t%s\t\n", f.Money(p.TotalBudgeted), f.Money(p.TotalSpent), f.Percent(p.OverallPercentage))
			if err := tw.Flush(); err != nil {
				return err
			}
			if p.OverBudget {
				fmt.Fprintln(out, "Over budget")
			}
			return nil
		},
	}
}

func newGoalsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "Show goal progress ordered by completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if !e.tracker.Analyzer().Features().Goals {
				return errors.New("goals are disabled")
			}
			d, err := e.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, d.Goals)
			}

			f := e.formatter
			tw := newTable(out)
			fmt.Fprintln(tw, "GOAL\tPROGRESS\tREMAINING\tDAYS\tSTATUS")
			for _, g := range d.Goals {
				days := fmt.Sprintf("%d", g.DaysRemaining)
				if g.Overdue {
					days = "overdue"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", g.Title, f.Percent(g.Percent), f.Money(g.Remaining), days, g.Status)
			}
			return tw.Flush()
		},
	}
}

func newInvestmentsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "investments",
		Short: "Show portfolio performance and allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			d, err := e.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if d.Investments == nil {
				return errors.New("investments are disabled")
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, d.Investments)
			}

			f := e.formatter
			p := d.Investments
			fmt.Fprintf(out, "Invested:     %s\n", f.Money(p.TotalInvested))
			fmt.Fprintf(out, "Value:        %s\n", f.Money(p.CurrentValue))
			fmt.Fprintf(out, "Return:       %s (%s)\n", f.SignedMoney(p.AbsoluteReturn), f.PercentDecimal(p.PercentageReturn))
			fmt.Fprintf(out, "Real return:  %s\n\n", f.PercentDecimal(p.RealReturn))

			tw := newTable(out)
			fmt.Fprintln(tw, "TYPE\tVALUE\tSHARE")
			for _, s := range p.ByType {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, f.Money(s.Value), f.PercentDecimal(s.Share))
			}
			return tw.Flush()
		},
	}
}

func newDashboardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print every widget as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			d, err := e.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range d.Errors {
				e.logger.Warn().Err(w).Msg("widget failed")
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
}

var chartKinds = []string{"flow", "expenses", "trends", "budget", "allocation", "comparison"}

func newChartCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:       "chart <flow|expenses|trends|budget|allocation|comparison>",
		Short:     "Render a PNG chart",
		Args:      cobra.ExactArgs(1),
		ValidArgs: chartKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			data, err := e.renderChart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if data == nil {
				return fmt.Errorf("not enough data for %s chart", args[0])
			}
			if out == "" {
				out = args[0] + ".png"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <kind>.png)")
	return cmd
}

func (e *env) renderChart(ctx context.Context, kind string) ([]byte, error) {
	g := charts.NewChartGenerator(e.formatter)

	if kind == "comparison" {
		report, err := e.tracker.GetReport(ctx, cliUser, service.MonthlyReport, e.asOf)
		if err != nil {
			return nil, err
		}
		return g.GenerateBalanceChart(report)
	}

	d, err := e.dashboard(ctx)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "flow":
		return g.GenerateFinancialDashboard(d.Daily)
	case "expenses":
		return g.GenerateCategoryPieChart(d.Expenses, "Расходы по категориям")
	case "trends":
		return g.GenerateTrendChart(d.TrendSeries, d.TopCategories)
	case "budget":
		if d.Budget == nil {
			return nil, nil
		}
		return g.GenerateBudgetChart(*d.Budget)
	case "allocation":
		if d.Investments == nil {
			return nil, errors.New("investments are disabled")
		}
		return g.GenerateAllocationChart(*d.Investments)
	}
	return nil, fmt.Errorf("unknown chart %q, expected one of %v", kind, chartKinds)
}
