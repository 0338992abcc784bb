// Package ledger wires the SDK together: settings and the payer key go in,
// a Client exposing every ledger operation, query and address derivation
// comes out.
//
//	client, err := ledger.Open("config.toml", logger)
//	if err != nil {
//		return err
//	}
//	userID, _ := ledgerapi.NewUserID("example_user")
//	signature, err := client.CreateUser(ctx, userID)
package ledger
