package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custody-labs/ledger-sdk-go/pkg/ledger"
)

func createUserCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "create-user",
		Short: "Registers a ledger user",
		Args:  cobra.NoArgs,
		RunE:  createUserFunc,
	}
	c.Flags().String(UserIDKey, "", "User id (at most 32 bytes, or base64); random when empty")
	return c
}

func createUserFunc(c *cobra.Command, _ []string) error {
	userID, err := parseUserIDFlag(c.Flags(), UserIDKey, false)
	if err != nil {
		return err
	}
	client, err := openClient(c)
	if err != nil {
		return err
	}

	signature, err := client.CreateUser(c.Context(), userID)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "User id:", userID.String())
	fmt.Fprintln(c.OutOrStdout(), "CreateUser sig:", signature)
	return nil
}

func mintCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "mint",
		Short: "Mints tokens into the treasury",
		Args:  cobra.NoArgs,
		RunE:  mintFunc,
	}
	c.Flags().Uint64(AmountKey, DefaultMintAmount, "Amount in the mint's smallest unit")
	return c
}

func mintFunc(c *cobra.Command, _ []string) error {
	amount, err := parseAmountFlag(c.Flags(), AmountKey)
	if err != nil {
		return err
	}
	client, err := openClient(c)
	if err != nil {
		return err
	}

	signature, err := client.MintToTreasury(c.Context(), amount)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "Mint sig:", signature)
	return nil
}

func transferCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "transfer",
		Short: "Transfers tokens out of the treasury to a user",
		Args:  cobra.NoArgs,
		RunE:  transferFunc,
	}
	flags := c.Flags()
	flags.String(FromIDKey, "", "Sending user id")
	flags.String(ToIDKey, "", "Receiving user id")
	flags.Uint64(AmountKey, DefaultDepositAmount, "Amount in the mint's smallest unit")
	flags.String(FromTokenAccountKey, "", "Source token account; defaults to the treasury")
	flags.String(ToTokenAccountKey, "", "Destination token account; defaults to the payer's account, created if missing")
	return c
}

func transferFunc(c *cobra.Command, _ []string) error {
	flags := c.Flags()
	fromID, err := parseUserIDFlag(flags, FromIDKey, true)
	if err != nil {
		return err
	}
	toID, err := parseUserIDFlag(flags, ToIDKey, true)
	if err != nil {
		return err
	}
	amount, err := parseAmountFlag(flags, AmountKey)
	if err != nil {
		return err
	}
	fromAccount, err := parseOptionalAddress(flags, FromTokenAccountKey)
	if err != nil {
		return err
	}
	toAccount, err := parseOptionalAddress(flags, ToTokenAccountKey)
	if err != nil {
		return err
	}

	client, err := openClient(c)
	if err != nil {
		return err
	}
	if toAccount.IsZero() {
		toAccount, err = client.ResolveUserTokenAccount(c.Context(), client.Payer())
		if err != nil {
			return err
		}
	}

	signature, err := client.TransferFromTreasury(c.Context(), ledger.Transfer{
		FromID:           fromID,
		ToID:             toID,
		Amount:           amount,
		FromTokenAccount: fromAccount,
		ToTokenAccount:   toAccount,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "Transfer sig:", signature)
	return nil
}

func depositCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "deposit",
		Short: "Deposits tokens to a ledger user",
		Args:  cobra.NoArgs,
		RunE:  depositFunc,
	}
	flags := c.Flags()
	flags.String(UserIDKey, "", "User id")
	flags.Uint64(AmountKey, DefaultDepositAmount, "Amount in the mint's smallest unit")
	flags.String(TokenAccountKey, "", "User token account; defaults to the payer's account, created if missing")
	return c
}

func depositFunc(c *cobra.Command, _ []string) error {
	flags := c.Flags()
	userID, err := parseUserIDFlag(flags, UserIDKey, true)
	if err != nil {
		return err
	}
	amount, err := parseAmountFlag(flags, AmountKey)
	if err != nil {
		return err
	}
	account, err := parseOptionalAddress(flags, TokenAccountKey)
	if err != nil {
		return err
	}

	client, err := openClient(c)
	if err != nil {
		return err
	}
	if account.IsZero() {
		account, err = client.ResolveUserTokenAccount(c.Context(), client.Payer())
		if err != nil {
			return err
		}
	}

	signature, err := client.DepositToUser(c.Context(), userID, amount, account)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), "Deposit sig:", signature)
	return nil
}

func parseOptionalAddress(flags *pflag.FlagSet, key string) (solana.PublicKey, error) {
	value, err := flags.GetString(key)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if value == "" {
		return solana.PublicKey{}, nil
	}
	address, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("--%s: %w", key, err)
	}
	return address, nil
}
