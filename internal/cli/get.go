package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [ref]",
		Short: "Retrieve a listing by reference",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	l, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	printValue(cmd.OutOrStdout(), l)
}
