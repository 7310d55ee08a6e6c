package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trovo/internal/backup"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the inventory from a JSON snapshot",
	Long: `Restore the inventory from a snapshot produced by export. The
current database contents are replaced in a single transaction: if
anything in the snapshot cannot be restored, nothing changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		snapshot, err := backup.Decode(f)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.backups.Import(cmd.Context(), snapshot)
		if err != nil {
			return err
		}

		fmt.Printf("restored %d rooms, %d containers, %d spots, %d items, %d documents\n",
			stats.Rooms, stats.Containers, stats.Spots, stats.Items, stats.Documents)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
