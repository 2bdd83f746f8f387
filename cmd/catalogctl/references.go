package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"feature-catalog-be/internal/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var referencesAll bool

var referencesCmd = &cobra.Command{
	Use:   "references <category>",
	Short: "List reference rows of a category",
	Long: `References prints the dictionary rows of one category, active ones by default.

Example:
  catalogctl references module
  catalogctl references client --all`,
	Args: cobra.ExactArgs(1),
	RunE: runReferences,
}

func init() {
	referencesCmd.Flags().BoolVar(&referencesAll, "all", false, "include inactive rows")
}

func runReferences(cmd *cobra.Command, args []string) error {
	category, err := entity.ParseCategory(args[0])
	if err != nil {
		return err
	}
	refs, err := openReferences()
	if err != nil {
		return err
	}

	rows, err := refs.List(cmd.Context(), category, referencesAll)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		color.Yellow("No %s rows", category)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tUPDATED")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", row.Id, row.Name, row.IsActive, row.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
