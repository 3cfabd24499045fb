package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "condo-forecast",
		Short: "Condo sale forecast",
		Long: `Simulates selling a financed condominium: the mortgage balance on the
selling date, acquisition and transfer costs, capital-gains tax and the cash
left after repaying the loan, for every scenario in the configuration.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.OutOrStdout(), *opts)
		},
	}
	addRunFlags(rootCmd, opts)

	rootCmd.AddCommand(newRunCmd(), newServeCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
