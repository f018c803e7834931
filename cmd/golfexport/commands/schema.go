package commands

import (
	"fmt"
	"golfexport/internal/golfcsv"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:       "schema <summary|detail|shots>",
	Short:     "Prints the column order of an export.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(golfcsv.KindSummary), string(golfcsv.KindDetail), string(golfcsv.KindShots)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := golfcsv.ParseKind(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		schema, err := golfcsv.SchemaFor(kind, cfg.HoleSlots)
		if err != nil {
			return err
		}

		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"#", "Column"})
		for i, column := range schema.Columns() {
			t.AppendRow(table.Row{i + 1, column})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d columns", schema.Width())})
		t.Render()
		return nil
	},
}
