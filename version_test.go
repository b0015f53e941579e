package vault_test

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(c string) { vault.GitCommit = c }(vault.GitCommit)

	vault.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", vault.Version())

	vault.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", vault.Version())
}
