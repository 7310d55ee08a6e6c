package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search items and documents by name, tags or keywords",
	Long: `Search every item and document for the query as a substring and
print each match with its spot code and full location path.

Example:
  trovo search passaporto
  item      Passaporto di Anna    CAM-ARM-C1  Camera da letto > Armadio grande > Cassetto 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.inventory.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%-9s %-24s %-12s %s\n", r.Kind, r.Title, r.SpotCode, r.Breadcrumb)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
