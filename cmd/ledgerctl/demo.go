package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func demoCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "demo",
		Short: "Creates a user, mints, deposits and prints balances, stopping at the first failure",
		Args:  cobra.NoArgs,
		RunE:  demoFunc,
	}
	flags := c.Flags()
	flags.String(UserIDKey, "", "User id; random when empty")
	flags.Uint64(MintAmountKey, DefaultMintAmount, "Amount minted to the treasury")
	flags.Uint64(DepositAmountKey, DefaultDepositAmount, "Amount deposited to the user")
	return c
}

func demoFunc(c *cobra.Command, _ []string) error {
	flags := c.Flags()
	userID, err := parseUserIDFlag(flags, UserIDKey, false)
	if err != nil {
		return err
	}
	mintAmount, err := parseAmountFlag(flags, MintAmountKey)
	if err != nil {
		return err
	}
	depositAmount, err := parseAmountFlag(flags, DepositAmountKey)
	if err != nil {
		return err
	}

	client, err := openClient(c)
	if err != nil {
		return err
	}
	ctx := c.Context()
	out := c.OutOrStdout()

	fmt.Fprintln(out, "Creating user", userID.Text(), "…")
	signature, err := client.CreateUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintln(out, "CreateUser sig:", signature)

	fmt.Fprintln(out, "Minting …")
	signature, err = client.MintToTreasury(ctx, mintAmount)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	fmt.Fprintln(out, "Mint sig:", signature)

	treasury, err := client.TreasuryAccount()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Treasury account:", treasury)

	account, err := client.ResolveUserTokenAccount(ctx, client.Payer())
	if err != nil {
		return fmt.Errorf("resolve token account: %w", err)
	}
	fmt.Fprintln(out, "Token account:", account)

	fmt.Fprintln(out, "Depositing …")
	signature, err = client.DepositToUser(ctx, userID, depositAmount, account)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	fmt.Fprintln(out, "Deposit sig:", signature)

	fmt.Fprintln(out, "Fetching on-chain balances …")
	balance, err := client.BalanceOfUser(ctx, userID)
	if err != nil {
		return err
	}
	printUserBalance(out, balance)

	supply, err := client.TotalSupply(ctx)
	if err != nil {
		return err
	}
	printTokenAmount(out, "Total supply", supply)

	treasuryBalance, err := client.BalanceOfTreasury(ctx)
	if err != nil {
		return err
	}
	printTokenAmount(out, "Treasury balance", treasuryBalance)
	return nil
}
