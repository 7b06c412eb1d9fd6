package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"digital-key-store/internal/model"

	"github.com/spf13/cobra"
)

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List orders waiting for verification, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			pending, err := s.orders.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			if s.jsonOut {
				return writeJSON(cmd.OutOrStdout(), pending)
			}
			return printOrders(cmd.OutOrStdout(), pending)
		},
	}
}

func deliveredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delivered",
		Short: "List delivered orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			delivered, err := s.orders.ListDelivered(cmd.Context())
			if err != nil {
				return err
			}
			if s.jsonOut {
				return writeJSON(cmd.OutOrStdout(), delivered)
			}

			orders := make([]*model.Order, 0, len(delivered))
			for _, o := range delivered {
				orders = append(orders, o)
			}
			sort.Slice(orders, func(i, j int) bool {
				return deliveredAt(orders[i]).After(deliveredAt(orders[j]))
			})
			return printOrders(cmd.OutOrStdout(), orders)
		},
	}
}

func canceledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canceled",
		Short: "List canceled orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			canceled, err := s.orders.ListCanceled(cmd.Context())
			if err != nil {
				return err
			}
			if s.jsonOut {
				return writeJSON(cmd.OutOrStdout(), canceled)
			}
			return printOrders(cmd.OutOrStdout(), canceled)
		},
	}
}

func deliveredAt(o *model.Order) time.Time {
	if o.DeliveredAt == nil {
		return time.Time{}
	}
	return *o.DeliveredAt
}

func printOrders(out io.Writer, orders []*model.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tPRODUCT\tQTY\tTOTAL\tEMAIL\tSTATUS\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
			o.OrderID, o.ProductID, o.Qty, o.Total, o.Email, o.Status, o.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
