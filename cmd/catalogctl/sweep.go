package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sweepCategory string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Purge inactive reference rows",
	Long: `Sweep deletes retired (inactive) reference rows. Active rows and id
counters are untouched, so purged ids are never handed out again.

Example:
  catalogctl sweep
  catalogctl sweep --category module`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepCategory, "category", "", "only sweep one category (system_name, module, feature, client, source)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	categories, err := categoriesArg(sweepCategory)
	if err != nil {
		return err
	}
	refs, err := openReferences()
	if err != nil {
		return err
	}

	color.Cyan("🧹 Sweeping inactive reference rows")
	var total int64
	for _, category := range categories {
		purged, err := refs.PurgeInactive(cmd.Context(), category)
		if err != nil {
			return fmt.Errorf("sweep %s: %w", category, err)
		}
		total += purged
		if purged > 0 {
			color.Yellow("  %-12s %d purged", category, purged)
		} else {
			fmt.Printf("  %-12s nothing to purge\n", category)
		}
	}
	color.Green("✅ Done, %d rows purged", total)
	return nil
}
