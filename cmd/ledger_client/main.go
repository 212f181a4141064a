package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/veriledger/registry-attestation-backend/api/clients"
	"github.com/veriledger/registry-attestation-backend/cmd/flags"
	"github.com/veriledger/registry-attestation-backend/interfaces"
)

func main() {
	app := &cli.App{
		Name:  "ledger-client",
		Usage: "Interact with the registry and attestation ledger API",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
			flags.CallerFlag,
		},
		Commands: []*cli.Command{
			{
				Name:      "register-item",
				Usage:     "Register a registry item",
				ArgsUsage: "<uri> [category]",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := c.RegisterItem(cCtx.Args().Get(0), cCtx.Args().Get(1))
					if err != nil {
						return err
					}
					fmt.Println(id)
					return nil
				},
			},
			{
				Name:      "moderate-item",
				Usage:     "Overwrite an item's verified/active flags (CURATOR)",
				ArgsUsage: "<id> <verified> <active>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := argID(cCtx, 0)
					if err != nil {
						return err
					}
					verified, err := strconv.ParseBool(cCtx.Args().Get(1))
					if err != nil {
						return err
					}
					active, err := strconv.ParseBool(cCtx.Args().Get(2))
					if err != nil {
						return err
					}
					return c.ModerateItem(id, verified, active)
				},
			},
			{
				Name:      "deactivate-item",
				Usage:     "Deactivate your own item",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := argID(cCtx, 0)
					if err != nil {
						return err
					}
					return c.DeactivateItem(id)
				},
			},
			{
				Name:      "get-item",
				Usage:     "Fetch an item",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := argID(cCtx, 0)
					if err != nil {
						return err
					}
					item, err := c.GetItem(id)
					if err != nil {
						return err
					}
					return printJSON(item)
				},
			},
			{
				Name:      "grant-role",
				Usage:     "Grant a role (ADMIN)",
				ArgsUsage: "<account> <role>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					account, err := interfaces.NewAccountFromHex(cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					return c.GrantRole(account, interfaces.Role(cCtx.Args().Get(1)))
				},
			},
			{
				Name:      "revoke-role",
				Usage:     "Revoke a role (ADMIN)",
				ArgsUsage: "<account> <role>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					account, err := interfaces.NewAccountFromHex(cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					return c.RevokeRole(account, interfaces.Role(cCtx.Args().Get(1)))
				},
			},
			{
				Name:      "transfer-ownership",
				Usage:     "Transfer ownership (owner)",
				ArgsUsage: "<new-owner>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					newOwner, err := interfaces.NewAccountFromHex(cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					return c.TransferOwnership(newOwner)
				},
			},
			{
				Name:      "create-document",
				Usage:     "Create an attestation document",
				ArgsUsage: "<hash> <value-wei> <signer> [signer...]",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					value, ok := new(big.Int).SetString(cCtx.Args().Get(1), 10)
					if !ok {
						return fmt.Errorf("invalid value: %s", cCtx.Args().Get(1))
					}
					var signers []interfaces.Account
					for _, raw := range cCtx.Args().Slice()[2:] {
						signer, err := interfaces.NewAccountFromHex(raw)
						if err != nil {
							return err
						}
						signers = append(signers, signer)
					}
					id, err := c.CreateDocument(cCtx.Args().Get(0), signers, value)
					if err != nil {
						return err
					}
					fmt.Println(id)
					return nil
				},
			},
			{
				Name:      "sign-document",
				Usage:     "Record your attestation on a document",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := argID(cCtx, 0)
					if err != nil {
						return err
					}
					return c.SignDocument(id)
				},
			},
			{
				Name:      "revoke-document",
				Usage:     "Revoke your document (creator, pre-completion)",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := argID(cCtx, 0)
					if err != nil {
						return err
					}
					return c.RevokeDocument(id)
				},
			},
			{
				Name:      "get-document",
				Usage:     "Fetch a document",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					id, err := argID(cCtx, 0)
					if err != nil {
						return err
					}
					doc, err := c.GetDocument(id)
					if err != nil {
						return err
					}
					return printJSON(doc)
				},
			},
			{
				Name:      "set-fee",
				Usage:     "Set the document storage fee (owner)",
				ArgsUsage: "<fee-wei>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					fee, ok := new(big.Int).SetString(cCtx.Args().Get(0), 10)
					if !ok {
						return fmt.Errorf("invalid fee: %s", cCtx.Args().Get(0))
					}
					return c.SetStorageFee(fee)
				},
			},
			{
				Name:  "withdraw-fees",
				Usage: "Withdraw the full treasury balance (owner)",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					amount, err := c.WithdrawFees()
					if err != nil {
						return err
					}
					fmt.Println(amount)
					return nil
				},
			},
			{
				Name:      "fund",
				Usage:     "Mint native value to an account (owner faucet)",
				ArgsUsage: "<account> <amount-wei>",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					account, err := interfaces.NewAccountFromHex(cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					amount, ok := new(big.Int).SetString(cCtx.Args().Get(1), 10)
					if !ok {
						return fmt.Errorf("invalid amount: %s", cCtx.Args().Get(1))
					}
					return c.Fund(account, amount)
				},
			},
			{
				Name:      "events",
				Usage:     "Fetch journal records",
				ArgsUsage: "[event-name]",
				Action: func(cCtx *cli.Context) error {
					c, err := newClient(cCtx)
					if err != nil {
						return err
					}
					events, err := c.Events(0, cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					return printJSON(events)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) (*clients.Client, error) {
	caller, err := interfaces.NewAccountFromHex(cCtx.String(flags.CallerFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("could not parse caller account: %w", err)
	}
	return clients.NewClient(cCtx.String(flags.ServerAddrFlag.Name), caller), nil
}

func argID(cCtx *cli.Context, n int) (uint64, error) {
	return strconv.ParseUint(cCtx.Args().Get(n), 10, 64)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
