package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custody-labs/ledger-sdk-go/pkg/derive"
)

func accountsCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "accounts",
		Short: "Displays the treasury and a user's token account",
		Args:  cobra.NoArgs,
		RunE:  accountsFunc,
	}
	flags := c.Flags()
	flags.String(OwnerKey, "", "Token account owner; defaults to the payer")
	flags.Bool(CreateKey, false, "Create the owner's token account when missing")
	return c
}

func accountsFunc(c *cobra.Command, _ []string) error {
	flags := c.Flags()
	owner, err := parseOptionalAddress(flags, OwnerKey)
	if err != nil {
		return err
	}
	create, err := flags.GetBool(CreateKey)
	if err != nil {
		return err
	}

	client, err := openClient(c)
	if err != nil {
		return err
	}
	if owner.IsZero() {
		owner = client.Payer()
	}

	treasury, err := client.TreasuryAccount()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "Treasury account:", treasury)

	if create {
		account, err := client.ResolveUserTokenAccount(c.Context(), owner)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), "Token account:", account)
		return nil
	}

	mint, err := client.Mint()
	if err != nil {
		return err
	}
	account, err := derive.AssociatedTokenAccount(owner, mint)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "Token account:", account)
	return nil
}
