package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"powerfulchat/internal/enrichment"
	"powerfulchat/internal/logging"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair one-sided credit links between persons and films",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signalContext()
			defer stop()

			report, err := enrichment.NewReconciler(store, logger).Repair(runCtx)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Persons scanned", strconv.Itoa(report.PersonsScanned)},
				{"Films scanned", strconv.Itoa(report.FilmsScanned)},
				{"Film-side credits added", strconv.Itoa(report.FilmSideAdded)},
				{"Person-side credits added", strconv.Itoa(report.PersonSideAdded)},
				{"Orphaned credits", strconv.Itoa(report.Orphans)},
			}
			fmt.Fprintln(os.Stdout, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}
