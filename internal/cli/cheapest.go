package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simp-lee/minimarket/internal/module/product"
)

var errInvalidCount = errors.New("El argumento debe ser un número mayor a 0")

func newCheapestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "cheapest [n]",
		Short:   "List the n cheapest available products",
		Example: "  catalogctl cheapest 5",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseCount(args)
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(opts)
			if err != nil {
				return err
			}
			defer closeStore()

			products, err := product.CheapestAvailable(cmd.Context(), store, n)
			if err != nil {
				return commandError("cheapest", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Top %d productos más baratos disponibles:\n", n)
			for i, p := range products {
				fmt.Fprintf(out, "%d. %s - $%s\n", i+1, p.Name, p.Price.StringFixed(2))
			}
			return nil
		},
	}
}

// parseCount reads the optional count argument.
func parseCount(args []string) (int, error) {
	if len(args) == 0 {
		return product.DefaultCheapestCount, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n <= 0 {
		return 0, errInvalidCount
	}
	return n, nil
}
