package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "keyctl",
		Short:         "Operate the key store ledger without the HTTP server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(pendingCmd())
	rootCmd.AddCommand(deliveredCmd())
	rootCmd.AddCommand(canceledCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(cancelCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
