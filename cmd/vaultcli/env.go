package main

import (
	"os"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// defaultKeyPath is the private key location used when neither a flag nor
// the VAULTCLI_PRIV_KEY environment variable is set.
func defaultKeyPath() string {
	return env("VAULTCLI_PRIV_KEY", os.Getenv("HOME")+"/.vault.priv.key")
}
