package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List stored categories with listing counts",
		Run:   runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rows, err := s.Categories(cmd.Context())
	if err != nil {
		exitErr("list categories", err)
	}

	printValue(cmd.OutOrStdout(), rows)
}
