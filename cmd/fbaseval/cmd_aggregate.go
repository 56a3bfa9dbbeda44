package main

import (
	"github.com/spf13/cobra"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/metrics"
	"fbaseval/internal/store"
)

var aggregateFlags struct {
	db      string
	fromCSV string
	out     string
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Summarize repeated runs into one row per parameter combination",
	Long: `Aggregate groups the collected per-run rows by experiment and
parameter combination and reduces each group to min/max/mean summary
statistics. Groups with fewer than two runs are logged and dropped.
Rows come from the run store by default, or from a per-run CSV written
by collect --out when --from-csv is given.`,
	Args: cobra.NoArgs,
	RunE: runAggregate,
}

func init() {
	f := aggregateCmd.Flags()
	f.StringVar(&aggregateFlags.db, "db", store.DefaultPath, "Run store database")
	f.StringVar(&aggregateFlags.fromCSV, "from-csv", "", "Read per-run rows from CSV instead of the store (\"-\" for stdin)")
	f.StringVarP(&aggregateFlags.out, "out", "o", "", "Aggregated table destination (default stdout)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	var s aggregate.Schema
	var rows []metrics.Row

	if aggregateFlags.fromCSV != "" {
		in, err := openInput(aggregateFlags.fromCSV)
		if err != nil {
			return err
		}
		defer in.Close()
		if s, rows, err = aggregate.ReadRows(in); err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(aggregateFlags.db)
		if err != nil {
			return err
		}
		defer st.Close()
		if rows, err = st.Rows(); err != nil {
			return err
		}
		s = aggregate.NewSchema(cfg.ParameterNames())
	}

	out, err := openOutput(aggregateFlags.out)
	if err != nil {
		return err
	}
	defer out.Close()
	return aggregate.WriteTable(out, s, aggregate.Aggregate(s, rows))
}
