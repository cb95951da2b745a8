package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export listings",
		Long:  "Export every listing, oldest first, as JSON or YAML (--format). Filter by stored category with -c.",
		Run:   runExport,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by stored category")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	listings, err := s.ExportAll(cmd.Context(), category)
	if err != nil {
		exitErr("export", err)
	}

	printValue(cmd.OutOrStdout(), listings)
}
