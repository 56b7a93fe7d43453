package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simp-lee/minimarket/internal/module/product"
)

func newSeedCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with the products of a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			store, closeStore, err := openStore(opts)
			if err != nil {
				return err
			}
			defer closeStore()

			created, err := product.NewSeeder(store).Seed(cmd.Context(), f)
			if err != nil {
				return commandError("seed", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d productos creados\n", len(created))
			for _, p := range created {
				fmt.Fprintf(out, "  - %s - $%s (%s)\n", p.Name, p.Price.StringFixed(2), p.Category)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "product.json", "JSON array of products")
	return cmd
}
