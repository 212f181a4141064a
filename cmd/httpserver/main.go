package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/veriledger/registry-attestation-backend/accesscontrol"
	"github.com/veriledger/registry-attestation-backend/attestation"
	"github.com/veriledger/registry-attestation-backend/cmd/flags"
	"github.com/veriledger/registry-attestation-backend/common"
	"github.com/veriledger/registry-attestation-backend/httpserver"
	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
	"github.com/veriledger/registry-attestation-backend/metrics"
	"github.com/veriledger/registry-attestation-backend/registry"
)

var cliFlags = []cli.Flag{
	flags.ListenAddrFlag,
	flags.MetricsAddrFlag,
	flags.OwnerFlag,
	flags.TreasuryFlag,
	flags.StorageFeeFlag,
	flags.GenesisBalanceFlag,
	flags.LogJSONFlag,
	flags.LogDebugFlag,
	flags.LogUIDFlag,
	flags.LogServiceFlag,
	flags.PprofFlag,
	flags.DrainSecondsFlag,
}

func main() {
	app := &cli.App{
		Name:  "ledger-server",
		Usage: "Serve the registry and attestation ledger API",
		Flags: cliFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			owner, err := interfaces.NewAccountFromHex(cCtx.String(flags.OwnerFlag.Name))
			if err != nil {
				logger.Error("Invalid owner account", "err", err)
				return err
			}
			treasury, err := interfaces.NewAccountFromHex(cCtx.String(flags.TreasuryFlag.Name))
			if err != nil {
				logger.Error("Invalid treasury account", "err", err)
				return err
			}
			storageFee, ok := new(big.Int).SetString(cCtx.String(flags.StorageFeeFlag.Name), 10)
			if !ok {
				return fmt.Errorf("invalid storage-fee: %s", cCtx.String(flags.StorageFeeFlag.Name))
			}
			genesisBalance, ok := new(big.Int).SetString(cCtx.String(flags.GenesisBalanceFlag.Name), 10)
			if !ok {
				return fmt.Errorf("invalid genesis-balance: %s", cCtx.String(flags.GenesisBalanceFlag.Name))
			}

			// Execution environment: bank, journal, call context.
			bank := ledger.NewBank()
			journal := ledger.NewJournal()
			env := ledger.NewEnv(bank, journal)
			if genesisBalance.Sign() > 0 {
				bank.Mint(owner, genesisBalance)
				logger.Info("Minted genesis balance", "owner", owner, "amount", genesisBalance)
			}

			// Engines share the journal; the attestation engine consults the
			// access-control owner for fee authority.
			access, err := accesscontrol.New(owner, journal, logger)
			if err != nil {
				logger.Error("Failed to initialize access control", "err", err)
				return err
			}
			registryEngine := registry.NewEngine(access, journal, logger)
			attestationEngine, err := attestation.NewEngine(attestation.Config{
				Owner:      access,
				Bank:       bank,
				Treasury:   treasury,
				StorageFee: storageFee,
				Journal:    journal,
				Log:        logger,
			})
			if err != nil {
				logger.Error("Failed to initialize attestation engine", "err", err)
				return err
			}

			m := metrics.New(common.PackageName)
			handler := httpserver.NewHandler(access, registryEngine, attestationEngine, env, m, logger)

			cfg := flags.ConfigureServer(cCtx, logger)
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server", "owner", owner, "treasury", treasury, "storageFee", storageFee)
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
