package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	vaultapp "github.com/iov-one/vault/cmd/vaultcli/app"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

func cmdRun(input io.Reader, output io.Writer, args []string) error {
	fl := runFlags()
	fl.Parse(args)

	conf, err := loadRunConfig(fl)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, conf.LogLevel)
	if err != nil {
		return err
	}
	return runLedger(conf, logger, input, output)
}

func runFlags() *flag.FlagSet {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the ledger from a genesis file and execute transactions read from
the input, one JSON encoded transaction per line. The result of each
transaction is written as a single JSON line. When the input is consumed, the
state of the wallet is written.

Settings can be provided by a configuration file, by VAULT_ prefixed
environment variables (ie. VAULT_LOG_LEVEL) or by flags, where flags take
precedence.
`)
		fl.PrintDefaults()
	}
	fl.String("config", "", "Path to an optional configuration file (json, yaml or toml).")
	fl.String("genesis", "genesis.json", "Path to the genesis file.")
	fl.String("chain-id", "", "Chain ID overwriting the one declared in the genesis file.")
	fl.String("log-level", "info", "Log level, one of debug, info, error or none.")
	fl.Bool("debug", false, "Return full error information, including stack traces.")
	return fl
}

// runConfig holds the settings of a single ledger run.
type runConfig struct {
	Genesis  string
	ChainID  string
	LogLevel string
	Debug    bool
}

// loadRunConfig merges the configuration file, the environment and the
// explicitly set flags.
func loadRunConfig(fl *flag.FlagSet) (*runConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("VAULT")
	v.AutomaticEnv()

	fl.VisitAll(func(f *flag.Flag) {
		v.SetDefault(configKey(f.Name), f.DefValue)
	})
	fl.Visit(func(f *flag.Flag) {
		v.Set(configKey(f.Name), f.Value.String())
	})
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read configuration: %s", err)
		}
	}

	return &runConfig{
		Genesis:  v.GetString("genesis"),
		ChainID:  v.GetString("chain_id"),
		LogLevel: v.GetString("log_level"),
		Debug:    v.GetBool("debug"),
	}, nil
}

// configKey maps a flag name to the configuration and environment key.
func configKey(flagName string) string {
	return strings.Replace(flagName, "-", "_", -1)
}

func newLogger(w io.Writer, level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(logger, opt).With("module", "vault"), nil
}

// txResult is the outcome of a single transaction, as written to the
// output.
type txResult struct {
	Line int    `json:"line"`
	Path string `json:"path,omitempty"`
	app.Result
}

func runLedger(conf *runConfig, logger log.Logger, input io.Reader, output io.Writer) error {
	gen, err := app.LoadGenesis(conf.Genesis)
	if err != nil {
		return err
	}
	chainID := gen.ChainID
	if conf.ChainID != "" {
		chainID = conf.ChainID
	}

	ledger, err := vaultapp.Application("vault", logger, conf.Debug)
	if err != nil {
		return fmt.Errorf("cannot create application: %s", err)
	}
	if err := ledger.InitChain(chainID, gen.AppState); err != nil {
		return fmt.Errorf("cannot initialize ledger: %s", err)
	}

	enc := json.NewEncoder(output)
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTxLineSize)
	for line := 1; scanner.Scan(); line++ {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		res := executeTx(ledger, raw, conf.Debug)
		res.Line = line
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("cannot write result: %s", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read transactions: %s", err)
	}

	var state *vaultapp.LedgerState
	err = ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		state, err = vaultapp.ReadLedgerState(db)
		return err
	})
	if err != nil {
		return fmt.Errorf("cannot read ledger state: %s", err)
	}
	return enc.Encode(map[string]interface{}{"ledger": state})
}

const maxTxLineSize = 1024 * 1024

// executeTx checks the transaction first and delivers it only if the check
// passed.
func executeTx(ledger *app.Application, raw string, debug bool) txResult {
	var tx vaultapp.Tx
	if err := tx.UnmarshalJSON([]byte(raw)); err != nil {
		code, info := errors.Info(err, debug)
		return txResult{Result: app.Result{Code: code, Log: info}}
	}
	res := txResult{Path: tx.Msg.Path()}
	bin, err := tx.Marshal()
	if err != nil {
		code, info := errors.Info(err, debug)
		res.Result = app.Result{Code: code, Log: info}
		return res
	}

	ctx := context.Background()
	if res.Result = ledger.CheckTx(ctx, bin); !res.IsOK() {
		return res
	}
	res.Result = ledger.DeliverTx(ctx, bin)
	return res
}
