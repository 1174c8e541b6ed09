package wallet

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	ScryptN = 1 << 10
	os.Exit(m.Run())
}

func TestEncryptDecrypt(t *testing.T) {
	plaintext := "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	passphrase := "supersecurekey"

	cyphertext, err := Encrypt(EncryptOpts{
		PlainText:  plaintext,
		Passphrase: passphrase,
	})
	require.NoError(t, err)

	revealedtext, err := Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: passphrase,
	})
	require.NoError(t, err)
	assert.Equal(t, plaintext, revealedtext)

	_, err = Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: "wrongkey",
	})
	assert.Error(t, err)
}

func TestFailingEncrypt(t *testing.T) {
	tests := []struct {
		opts EncryptOpts
		err  error
	}{
		{
			opts: EncryptOpts{
				PlainText:  "",
				Passphrase: "supersecurekey",
			},
			err: ErrNullPlainText,
		},
		{
			opts: EncryptOpts{
				PlainText:  "super secret message",
				Passphrase: "",
			},
			err: ErrNullPassphrase,
		},
	}
	for _, tt := range tests {
		_, err := Encrypt(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}

func TestFailingDecrypt(t *testing.T) {
	tests := []struct {
		opts DecryptOpts
		err  error
	}{
		{
			opts: DecryptOpts{
				CypherText: "",
				Passphrase: "supersecurekey",
			},
			err: ErrNullCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "supersecretmessage",
				Passphrase: "supersecurekey",
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "c2hvcnQ=",
				Passphrase: "supersecurekey",
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "fUzjTyxipK6fGrGXTLYFCb6oFHEOtqfdJTvXM5XMBx+YbK1EgFv+1PqkmZ2A3skaIyqQ0jJjA4gzKGw/dxtK0rRKL0ud8bq8BPImQvXAaYk=",
				Passphrase: "",
			},
			err: ErrNullPassphrase,
		},
	}
	for _, tt := range tests {
		_, err := Decrypt(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}
