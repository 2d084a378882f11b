package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ivanoskov/fnhub/internal/config"
	"github.com/ivanoskov/fnhub/internal/format"
	"github.com/ivanoskov/fnhub/internal/logging"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/repository"
	"github.com/ivanoskov/fnhub/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cliUser владелец импортированного снимка в хранилище
const cliUser int64 = 1

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	snapshot string
	asOf     string
	json     bool
	config   string
}

// env собранное окружение одной команды
type env struct {
	tracker   *service.ExpenseTracker
	formatter *format.Formatter
	logger    zerolog.Logger
	asOf      time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "fnhub",
		Short: "Derived finance analytics over a snapshot of transactions",
		Long: `fnhub computes balances, time buckets, category spend, spending predictions,
budget utilization, goal progress and portfolio performance from a JSON snapshot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.snapshot, "snapshot", "", "path to snapshot JSON file")
	flags.StringVar(&opts.asOf, "as-of", "", "reference date YYYY-MM-DD (default today)")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of text")
	flags.StringVar(&opts.config, "config", "", "path to config file (TOML, YAML or JSON)")

	root.AddCommand(
		newSummaryCmd(opts),
		newReportCmd(opts),
		newPredictCmd(opts),
		newBudgetCmd(opts),
		newGoalsCmd(opts),
		newInvestmentsCmd(opts),
		newDashboardCmd(opts),
		newChartCmd(opts),
	)
	return root
}

func (o *options) load(cmd *cobra.Command) (*env, error) {
	if o.snapshot == "" {
		return nil, errors.New("--snapshot is required")
	}

	cfg, err := config.LoadConfig(o.config)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging("cli"))

	formatter, err := cfg.Formatter()
	if err != nil {
		return nil, err
	}

	asOf := time.Now()
	if o.asOf != "" {
		d, err := model.ParseDate(o.asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of: %w", err)
		}
		asOf = d.Time
	}

	snapshot, err := readSnapshot(o.snapshot)
	if err != nil {
		return nil, err
	}
	repo := repository.NewMemory()
	repo.Import(cliUser, snapshot)
	logger.Debug().
		Str("snapshot", o.snapshot).
		Int("transactions", len(snapshot.Transactions)).
		Msg("snapshot loaded")

	return &env{
		tracker:   service.NewExpenseTracker(repo, cfg.Analyzer(logger)),
		formatter: formatter,
		logger:    logger,
		asOf:      asOf,
	}, nil
}

func readSnapshot(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
