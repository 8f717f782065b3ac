package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritualdetail/slotbook/internal/catalog"
)

var packagesCategory string

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Show service packages and prices",
	Args:  cobra.NoArgs,
	RunE:  runPackages,
}

func init() {
	packagesCmd.Flags().StringVar(&packagesCategory, "category", "", "Only show prices for this vehicle type (hatchback, sedan, suv)")
	rootCmd.AddCommand(packagesCmd)
}

func runPackages(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	categories := catalog.Categories
	if packagesCategory != "" {
		c, err := catalog.ParseCategory(packagesCategory)
		if err != nil {
			return err
		}
		categories = []catalog.Category{c}
	}

	out := cmd.OutOrStdout()
	for _, p := range cat.Packages {
		name := p.Name
		if p.Popular {
			name += " (most popular)"
		}
		fmt.Fprintf(out, "%s [%s]\n", name, p.ID)

		for _, c := range categories {
			if price, ok := p.Prices[c]; ok {
				fmt.Fprintf(out, "    %-18s %s\n", c, cat.FormatPrice(price))
			}
		}
		if len(p.Features) > 0 {
			fmt.Fprintf(out, "    %s\n", strings.Join(p.Features, ", "))
		}
	}

	return nil
}
