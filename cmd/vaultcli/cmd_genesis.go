package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/wallet"
)

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a genesis file that configures the wallet approvers, the quorum and the
initial account balances.
`)
		fl.PrintDefaults()
	}
	var (
		approvers addressList
		balances  balanceList

		chainIDFl = fl.String("chain-id", "vault-local", "Chain ID the ledger is initialized with.")
		quorumFl  = fl.Uint64("quorum", 1, "Number of approvals required to execute a transfer.")
	)
	fl.Var(&approvers, "approver", "Approver address. Can be used multiple times.")
	fl.Var(&balances, "balance", "Initial account balance in address=amount format. Can be used multiple times.")
	fl.Parse(args)

	if !vault.IsValidChainID(*chainIDFl) {
		flagDie("invalid chain ID: %q", *chainIDFl)
	}
	conf := wallet.Configuration{
		Metadata:  &vault.Metadata{Schema: 1},
		Approvers: approvers,
		Quorum:    *quorumFl,
	}
	if err := conf.Validate(); err != nil {
		flagDie("invalid wallet configuration: %s", err)
	}
	if balances == nil {
		balances = balanceList{}
	}

	state, err := json.Marshal(map[string]interface{}{
		"cash": []cash.GenesisAccount(balances),
		"gconf": map[string]interface{}{
			"wallet": conf,
		},
	})
	if err != nil {
		return fmt.Errorf("cannot serialize application state: %s", err)
	}
	genesis := app.Genesis{
		ChainID:  *chainIDFl,
		AppState: vault.Options{},
	}
	if err := json.Unmarshal(state, &genesis.AppState); err != nil {
		return fmt.Errorf("cannot build application state: %s", err)
	}
	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize genesis: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
