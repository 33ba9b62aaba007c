package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/coffer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("deposit into the vault")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	require.NoError(t, sig.Validate())

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("another message"), sig))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
	assert.False(t, pub.Verify(msg, &Signature{Ed25519: []byte("short")}))
	assert.False(t, pub.Verify(msg, nil))
}

func TestDeterministicKeys(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed).PublicKey()
	b := PrivKeyEd25519FromSeed(seed).PublicKey()
	assert.Equal(t, a, b)
	assert.Equal(t, a.Address(), b.Address())
	assert.NoError(t, a.Address().Validate())

	c := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{8}, 32)).PublicKey()
	assert.NotEqual(t, a.Address(), c.Address())

	ext, typ, data, err := a.Condition().Parse()
	require.NoError(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, a.Ed25519, data)
}

func TestKeyValidation(t *testing.T) {
	var empty *PublicKey
	assert.True(t, errors.ErrEmpty.Is(empty.Validate()))
	assert.True(t, errors.ErrInput.Is((&PublicKey{Ed25519: []byte{1, 2}}).Validate()))
	assert.True(t, errors.ErrEmpty.Is((&Signature{}).Validate()))
}
