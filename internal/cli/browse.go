package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simp-lee/minimarket/internal/client"
)

func newBrowseCmd(opts *options) *cobra.Command {
	var (
		f         client.Filters
		available string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog through the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if available != "" {
				v, err := strconv.ParseBool(available)
				if err != nil {
					return fmt.Errorf("invalid --available %q: want true or false", available)
				}
				f.Available = &v
			}

			c, err := client.New(opts.apiURL)
			if err != nil {
				return err
			}

			state := client.NewController(c).SetFilters(cmd.Context(), f)
			if state.Err != "" {
				return errors.New(state.Err)
			}
			printPage(cmd.OutOrStdout(), state)
			return nil
		},
	}

	cmd.Flags().IntVar(&f.Page, "page", client.DefaultPage, "page number")
	cmd.Flags().IntVar(&f.Limit, "limit", client.DefaultLimit, "products per page")
	cmd.Flags().StringVar(&f.Search, "search", "", "name substring")
	cmd.Flags().StringVar(&f.Sort, "sort", "", "sort field (name, price)")
	cmd.Flags().StringVar(&f.Order, "order", "", "sort direction (asc, desc)")
	cmd.Flags().StringVar(&available, "available", "", "only available (true) or unavailable (false) products")
	cmd.Flags().StringVar(&f.Category, "category", "", "exact category")
	return cmd
}

func printPage(w io.Writer, s client.State) {
	if len(s.Products) == 0 {
		fmt.Fprintln(w, "No se encontraron productos.")
	} else {
		fmt.Fprintf(w, "%-36s  %-30s  %10s  %-10s  %s\n", "ID", "NOMBRE", "PRECIO", "DISPONIBLE", "CATEGORÍA")
		for _, p := range s.Products {
			fmt.Fprintf(w, "%-36s  %-30s  %10.2f  %-10s  %s\n", p.ID, p.Name, p.Price, yesNo(p.IsAvailable), p.Category)
		}
	}
	fmt.Fprintf(w, "\nPágina %d de %d (%d productos)\n", s.Filters.Page, s.TotalPages, s.TotalItems)
}

func yesNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}
