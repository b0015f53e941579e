package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/vault"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It is the responsibility of
// the command function to parse the arguments. In a special case of an
// invalid argument a message to os.Stderr and os.Exit(2) call are allowed.
//
// Commands can be combined using a unix pipe. For example, transactions
// created by separate commands can be executed by the ledger in one run:
//
//	$ (vaultcli deposit -amount 1000 -key funder.key; \
//	   vaultcli create-transfer -amount 1000 -dst $DST -key a.key; \
//	   vaultcli approve-transfer -id 0 -key a.key; \
//	   vaultcli approve-transfer -id 0 -key b.key) \
//	    | vaultcli run -genesis genesis.json
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"approve-transfer": cmdApproveTransfer,
	"create-transfer":  cmdCreateTransfer,
	"deposit":          cmdDeposit,
	"genesis":          cmdGenesis,
	"keyaddr":          cmdKeyaddr,
	"keygen":           cmdKeygen,
	"run":              cmdRun,
	"send-tokens":      cmdSendTokens,
	"version":          cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the authorized transfer ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, vault.Version(), gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"
