// ledgerctl drives the custodial token ledger from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "command failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	c := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Custodial token ledger client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.SetOut(stdout)
	c.SetErr(stderr)
	AddGlobalFlags(c.PersistentFlags())

	c.AddCommand(
		createUserCommand(),
		mintCommand(),
		transferCommand(),
		depositCommand(),
		balanceUserCommand(),
		totalSupplyCommand(),
		balanceTreasuryCommand(),
		accountsCommand(),
		demoCommand(),
	)
	return c
}
