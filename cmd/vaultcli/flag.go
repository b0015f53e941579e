package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/x/cash"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *vault.Address {
	var a vault.Address
	if defaultVal != "" {
		var err error
		a, err = vault.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q vault.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flAmount returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAmount(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Amount {
	var a coin.Amount
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q amount flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// addressList is a repeatable address flag.
type addressList []vault.Address

func (l addressList) String() string {
	s := make([]string, len(l))
	for i, a := range l {
		s[i] = a.String()
	}
	return strings.Join(s, ",")
}

func (l *addressList) Set(raw string) error {
	a, err := vault.ParseAddress(raw)
	if err != nil {
		return err
	}
	*l = append(*l, a)
	return nil
}

// balanceList is a repeatable flag of address=amount pairs.
type balanceList []cash.GenesisAccount

func (l balanceList) String() string {
	s := make([]string, len(l))
	for i, b := range l {
		s[i] = fmt.Sprintf("%s=%s", b.Address, b.Amount)
	}
	return strings.Join(s, ",")
}

func (l *balanceList) Set(raw string) error {
	chunks := strings.SplitN(raw, "=", 2)
	if len(chunks) != 2 {
		return fmt.Errorf("balance must be in address=amount format")
	}
	addr, err := vault.ParseAddress(chunks[0])
	if err != nil {
		return err
	}
	amount, err := coin.ParseAmount(chunks[1])
	if err != nil {
		return err
	}
	*l = append(*l, cash.GenesisAccount{Address: addr, Amount: amount})
	return nil
}

// isFlagSet returns true if the flag with given name was provided on the
// command line.
func isFlagSet(fl *flag.FlagSet, name string) bool {
	var set bool
	fl.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// flagDie terminates the program when a command line flag is not valid.
func flagDie(description string, args ...interface{}) {
	if !strings.HasSuffix(description, "\n") {
		description += "\n"
	}
	fmt.Fprintf(os.Stderr, description, args...)
	os.Exit(2)
}
