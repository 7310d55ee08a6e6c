package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var codeCmd = &cobra.Command{
	Use:   "code <code>",
	Short: "Resolve a location code to its spot and contents",
	Long: `Resolve a printed location code (for example CAM-ARM-C1) to the spot
it labels: the full location path plus every item and document stored
there.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		code := strings.ToUpper(strings.TrimSpace(args[0]))
		spot, crumb, err := a.inventory.Lookup(ctx, code)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", spot.Code, crumb)
		if spot.Note != "" {
			fmt.Printf("note: %s\n", spot.Note)
		}

		items, err := a.inventory.ListItemsBySpot(ctx, spot.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			line := "  item      " + item.Name
			if item.IsLent {
				line += "  (lent to " + item.LentTo + ")"
			}
			fmt.Println(line)
		}

		documents, err := a.inventory.ListDocumentsBySpot(ctx, spot.ID)
		if err != nil {
			return err
		}
		for _, doc := range documents {
			fmt.Println("  document  " + doc.Title)
		}

		if len(items) == 0 && len(documents) == 0 {
			fmt.Println("  (empty)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codeCmd)
}
