package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledgerapi"
)

func balanceUserCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "balance-user",
		Short: "Displays a user's free and frozen balance",
		Args:  cobra.NoArgs,
		RunE:  balanceUserFunc,
	}
	c.Flags().String(UserIDKey, "", "User id")
	return c
}

func balanceUserFunc(c *cobra.Command, _ []string) error {
	userID, err := parseUserIDFlag(c.Flags(), UserIDKey, true)
	if err != nil {
		return err
	}
	reads, err := openQueries(c)
	if err != nil {
		return err
	}
	balance, err := reads.BalanceOfUser(c.Context(), userID)
	if err != nil {
		return err
	}
	printUserBalance(c.OutOrStdout(), balance)
	return nil
}

func totalSupplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "total-supply",
		Short: "Displays the mint's total supply",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reads, err := openQueries(c)
			if err != nil {
				return err
			}
			supply, err := reads.TotalSupply(c.Context())
			if err != nil {
				return err
			}
			printTokenAmount(c.OutOrStdout(), "Total supply", supply)
			return nil
		},
	}
}

func balanceTreasuryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance-treasury",
		Short: "Displays the treasury balance",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reads, err := openQueries(c)
			if err != nil {
				return err
			}
			balance, err := reads.BalanceOfTreasury(c.Context())
			if err != nil {
				return err
			}
			printTokenAmount(c.OutOrStdout(), "Treasury balance", balance)
			return nil
		},
	}
}

func printUserBalance(w io.Writer, balance ledgerapi.UserBalance) {
	fmt.Fprintf(w, "User balance: free=%d, frozen=%d\n", balance.Free, balance.Frozen)
}

func printTokenAmount(w io.Writer, label string, amount ledgerapi.TokenAmount) {
	fmt.Fprintf(w, "%s: %d (decimals=%d) = %s\n", label, amount.Amount, amount.Decimals, amount)
}
