package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a JSON snapshot of the whole inventory",
	Long: `Export the entire inventory (rooms, containers, spots, items and
documents, with their ids and timestamps) as a JSON snapshot. With no
argument the snapshot is written to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.backups.Export(cmd.Context())
		if err != nil {
			return err
		}

		out := os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			defer f.Close()
			out = f
		}
		return snapshot.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
