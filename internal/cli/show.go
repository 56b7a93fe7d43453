package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simp-lee/minimarket/internal/client"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product through the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(opts.apiURL)
			if err != nil {
				return err
			}

			state := client.NewDetailController(c).Load(cmd.Context(), args[0])
			if state.Product == nil {
				return errors.New(state.Err)
			}

			p := state.Product
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", p.ID)
			fmt.Fprintf(out, "Nombre:      %s\n", p.Name)
			fmt.Fprintf(out, "Precio:      $%.2f\n", p.Price)
			fmt.Fprintf(out, "Disponible:  %s\n", yesNo(p.IsAvailable))
			fmt.Fprintf(out, "Categoría:   %s\n", p.Category)
			fmt.Fprintf(out, "Imagen:      %s\n", p.Image)
			fmt.Fprintf(out, "Creado:      %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Actualizado: %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
