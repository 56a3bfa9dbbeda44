package main

import (
	"github.com/spf13/cobra"

	"fbaseval/internal/aggregate"
	"fbaseval/internal/collect"
	"fbaseval/internal/logging"
	"fbaseval/internal/store"
)

var collectFlags struct {
	db    string
	out   string
	fresh bool
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Parse analyzer reports into per-run metric rows",
	Long: `Collect walks the planned runs, parses each analyzer report and
extracts the per-run metrics into the run store. Runs whose report is
missing or unreadable are logged and skipped; they surface later as
smaller sample counts. With --out the rows are additionally written as
CSV for inspection or out-of-band aggregation.`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	f := collectCmd.Flags()
	f.StringVar(&collectFlags.db, "db", store.DefaultPath, "Run store database")
	f.StringVarP(&collectFlags.out, "out", "o", "", "Also write per-run rows as CSV (\"-\" for stdout)")
	f.BoolVar(&collectFlags.fresh, "fresh", false, "Drop previously stored rows of each experiment first")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rows := collect.Rows(cfg, rootFlags.dir)

	st, err := store.Open(collectFlags.db)
	if err != nil {
		return err
	}
	defer st.Close()

	if collectFlags.fresh {
		for _, exp := range cfg.Experiments {
			if err := st.DeleteExperiment(exp.Name); err != nil {
				return err
			}
		}
	}
	for _, row := range rows {
		if err := st.PutRow(row); err != nil {
			return err
		}
	}
	logging.New("collect").Info("stored rows", "rows", len(rows), "db", collectFlags.db)

	if collectFlags.out == "" {
		return nil
	}
	out, err := openOutput(collectFlags.out)
	if err != nil {
		return err
	}
	defer out.Close()
	return aggregate.WriteRows(out, aggregate.NewSchema(cfg.ParameterNames()), rows)
}
