package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products with their remaining stock",
		RunE:  runProducts,
	}
}

func runProducts(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	products, err := s.orders.ListProducts(cmd.Context())
	if err != nil {
		return err
	}
	if s.jsonOut {
		return writeJSON(cmd.OutOrStdout(), products)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	return w.Flush()
}

