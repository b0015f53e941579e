package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/cmd/vaultcli/app"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/wallet"
)

func cmdCreateTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that proposes a transfer of funds from the wallet to the
destination account. The owner of the private key must be an approver.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file of the transaction signer. You can use VAULTCLI_PRIV_KEY environment variable to set it.")
		dstFl    = flAddress(fl, "dst", "", "A destination account address that the funds are sent to.")
		amountFl = flAmount(fl, "amount", "", "An amount of funds to transfer.")
	)
	fl.Parse(args)

	if len(*dstFl) == 0 {
		flagDie("destination address is required")
	}
	if !isFlagSet(fl, "amount") {
		flagDie("amount is required")
	}
	return writeSignedTx(output, *keyPathFl, &wallet.CreateTransferMsg{
		Metadata:    &vault.Metadata{Schema: 1},
		Amount:      *amountFl,
		Destination: *dstFl,
	})
}

func cmdApproveTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that approves a pending transfer. The transfer is executed
once the quorum of approvals is reached.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file of the transaction signer. You can use VAULTCLI_PRIV_KEY environment variable to set it.")
		idFl = fl.Uint64("id", 0, "ID of the transfer to approve.")
	)
	fl.Parse(args)

	return writeSignedTx(output, *keyPathFl, &wallet.ApproveTransferMsg{
		Metadata:   &vault.Metadata{Schema: 1},
		TransferID: *idFl,
	})
}

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that moves funds from the signer account into the wallet.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file of the transaction signer. You can use VAULTCLI_PRIV_KEY environment variable to set it.")
		amountFl = flAmount(fl, "amount", "", "An amount of funds to deposit.")
	)
	fl.Parse(args)

	if amountFl.IsZero() {
		flagDie("amount must be greater than zero")
	}
	return writeSignedTx(output, *keyPathFl, &wallet.DepositMsg{
		Metadata: &vault.Metadata{Schema: 1},
		Amount:   *amountFl,
	})
}

func cmdSendTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for transferring funds from the signer account to the
destination account.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file of the transaction signer. You can use VAULTCLI_PRIV_KEY environment variable to set it.")
		dstFl    = flAddress(fl, "dst", "", "A destination account address that the funds are sent to.")
		amountFl = flAmount(fl, "amount", "", "An amount of funds to transfer.")
		memoFl   = fl.String("memo", "", "A short message attached to the transfer operation.")
	)
	fl.Parse(args)

	if len(*dstFl) == 0 {
		flagDie("destination address is required")
	}
	if amountFl.IsZero() {
		flagDie("amount must be greater than zero")
	}
	return writeSignedTx(output, *keyPathFl, &cash.SendMsg{
		Metadata:    &vault.Metadata{Schema: 1},
		Destination: *dstFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	})
}

// writeSignedTx writes a single line JSON transaction carrying given
// message, signed by the owner of the private key.
func writeSignedTx(output io.Writer, keyPath string, msg vault.Msg) error {
	key, err := readKey(keyPath)
	if err != nil {
		return err
	}
	return writeTx(output, app.NewTx(msg, key.PublicKey().Condition()))
}

func writeTx(output io.Writer, tx *app.Tx) error {
	if err := json.NewEncoder(output).Encode(tx); err != nil {
		return fmt.Errorf("cannot serialize transaction: %s", err)
	}
	return nil
}
