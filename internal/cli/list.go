package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/village-market/internal/catalog"
	"github.com/rcliao/village-market/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings, newest first",
		Long:  "List listings the way the keypad menu shows them. A transport --type includes the legacy rows filed under it.",
		Run:   runList,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category label")
	cmd.Flags().StringP("type", "t", "", "Transport type: Riders, Pickups or Lorries")
	cmd.Flags().StringP("village", "v", "", "Filter by village")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("phones-only", false, "Only output name and phone")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	sub, _ := cmd.Flags().GetString("type")
	village, _ := cmd.Flags().GetString("village")
	limit, _ := cmd.Flags().GetInt("limit")
	phonesOnly, _ := cmd.Flags().GetBool("phones-only")

	var categories []string
	switch {
	case sub != "":
		if !catalog.HasLabel(catalog.TransportTypes, sub) {
			exitErr("list", fmt.Errorf("unknown transport type %q", sub))
		}
		categories = catalog.QueryCategories(sub)
	case category != "":
		categories = []string{category}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	listings, err := s.Latest(cmd.Context(), store.LatestParams{
		Categories: categories,
		Village:    village,
		Limit:      limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if phonesOnly {
		for _, l := range listings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n", l.Name, l.Phone)
		}
		return
	}

	printValue(cmd.OutOrStdout(), listings)
}
