package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [orderId]",
		Short: "Verify a pending order, allocate its keys and mail them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noMail, _ := cmd.Flags().GetBool("no-mail")

			s, err := openSession(cmd, !noMail)
			if err != nil {
				return err
			}
			defer s.Close()

			order, err := s.orders.VerifyOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if s.jsonOut {
				return writeJSON(cmd.OutOrStdout(), order)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Delivered %s to %s\n", order.OrderID, order.Email)
			for _, k := range order.Keys() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", k)
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-mail", false, "Skip the key notification")

	return cmd
}
