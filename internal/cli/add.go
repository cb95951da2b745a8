package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/village-market/internal/catalog"
	"github.com/rcliao/village-market/internal/dialog"
	"github.com/rcliao/village-market/internal/model"
	"github.com/rcliao/village-market/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a business listing",
		Long:  "Add a listing directly, bypassing the keypad wizard. The category must be one of the menu categories; Transport takes a --type.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAdd,
	}

	cmd.Flags().StringP("category", "c", "", "Category label, e.g. \"Food & Drinks\" (required)")
	cmd.Flags().StringP("type", "t", "", "Transport type: Riders, Pickups or Lorries")
	cmd.Flags().StringP("phone", "p", "", "Contact phone (required)")
	cmd.Flags().StringP("village", "v", model.DefaultVillage, "Village")

	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("phone")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	sub, _ := cmd.Flags().GetString("type")
	phone, _ := cmd.Flags().GetString("phone")
	village, _ := cmd.Flags().GetString("village")

	category, err := resolveCategory(category, sub)
	if err != nil {
		exitErr("add", err)
	}
	village = strings.TrimSpace(village)
	if !catalog.HasLabel(catalog.Villages, village) {
		exitErr("add", fmt.Errorf("unknown village %q", village))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	l, err := s.Insert(cmd.Context(), store.InsertParams{
		Name:     strings.Join(args, " "),
		Category: category,
		Phone:    dialog.NormalizePhone(phone),
		Village:  village,
	})
	if err != nil {
		exitErr("add", err)
	}

	printValue(cmd.OutOrStdout(), l)
}

// resolveCategory turns a main category and optional transport type into
// the stored category value.
func resolveCategory(main, sub string) (string, error) {
	main, sub = strings.TrimSpace(main), strings.TrimSpace(sub)
	if sub != "" && main != catalog.Transport {
		return "", fmt.Errorf("--type only applies to %s", catalog.Transport)
	}
	if sub != "" && !catalog.HasLabel(catalog.TransportTypes, sub) {
		return "", fmt.Errorf("unknown transport type %q", sub)
	}
	c := catalog.StorageCategory(main, sub)
	if !catalog.ValidStorageCategory(c) {
		return "", fmt.Errorf("unknown category %q", main)
	}
	return c, nil
}
