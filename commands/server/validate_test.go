package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountsInitializer struct{}

func (accountsInitializer) FromGenesis(opts paystream.Options, db paystream.KVStore) error {
	var accounts []string
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return err
	}
	if len(accounts) == 0 {
		return errors.Wrap(errors.ErrEmpty, "accounts")
	}
	return nil
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "paystream-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"app_state": {"accounts": ["alice"]}}`)
	empty := write("empty.json", `{"app_state": {"accounts": []}}`)
	broken := write("broken.json", `{"app_state": `)

	assert.NoError(t, ValidateGenesis(accountsInitializer{}, []string{good}))

	err = ValidateGenesis(accountsInitializer{}, []string{good, empty})
	assert.True(t, errors.ErrEmpty.Is(err), "%+v", err)

	err = ValidateGenesis(accountsInitializer{}, []string{broken})
	assert.True(t, errors.ErrInvalidInput.Is(err), "%+v", err)

	err = ValidateGenesis(accountsInitializer{}, nil)
	assert.True(t, errors.ErrEmpty.Is(err), "%+v", err)
}
