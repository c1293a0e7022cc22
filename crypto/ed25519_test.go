package crypto

import (
	"bytes"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/weavetest/assert"
)

func TestVerify(t *testing.T) {
	maker := GenPrivKeyEd25519()
	buyer := GenPrivKeyEd25519()
	confirm := []byte("confirm escrow 1")

	sig, err := maker.Sign(confirm)
	assert.Nil(t, err)
	otherSig, err := buyer.Sign(confirm)
	assert.Nil(t, err)

	cases := map[string]struct {
		key  *PublicKey
		msg  []byte
		sig  *Signature
		want bool
	}{
		"signed by the key":   {key: maker.PublicKey(), msg: confirm, sig: sig, want: true},
		"signed by other key": {key: maker.PublicKey(), msg: confirm, sig: otherSig},
		"other message":       {key: maker.PublicKey(), msg: []byte("confirm escrow 2"), sig: sig},
		"empty signature":     {key: maker.PublicKey(), msg: confirm, sig: &Signature{}},
		"nil signature":       {key: maker.PublicKey(), msg: confirm, sig: nil},
		"truncated signature": {key: maker.PublicKey(), msg: confirm, sig: &Signature{Ed25519: sig.Ed25519[:10]}},
		"empty key":           {key: &PublicKey{}, msg: confirm, sig: sig},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.Verify(tc.msg, tc.sig))
		})
	}
}

func TestSignatureSurvivesSerialization(t *testing.T) {
	key := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{7}, 32))
	msg := []byte("release")
	sig, err := key.Sign(msg)
	assert.Nil(t, err)

	// deterministic for the same key and message
	again, err := key.Sign(msg)
	assert.Nil(t, err)
	assert.Equal(t, sig.Ed25519, again.Ed25519)

	raw, err := proto.Marshal(sig)
	assert.Nil(t, err)
	var decoded Signature
	assert.Nil(t, proto.Unmarshal(raw, &decoded))
	assert.Equal(t, true, key.PublicKey().Verify(msg, &decoded))
}

func TestMalformedPrivateKey(t *testing.T) {
	empty := &PrivateKey{}
	_, err := empty.Sign([]byte("release"))
	assert.IsErr(t, errors.ErrInput, err)
	assert.Equal(t, weave.Condition(nil), empty.PublicKey().Condition())

	short := &PrivateKey{Ed25519: []byte{1, 2, 3}}
	_, err = short.Sign([]byte("release"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestKeyCondition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	other := GenPrivKeyEd25519().PublicKey()

	cond := pub.Condition()
	assert.Nil(t, cond.Validate())
	ext, typ, data, err := cond.Parse()
	assert.Nil(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, pub.Ed25519, data)

	assert.Equal(t, cond.Address(), pub.Address())
	assert.Equal(t, false, pub.Address().Equals(other.Address()))

	var empty PublicKey
	assert.Equal(t, weave.Condition(nil), empty.Condition())
	assert.Equal(t, weave.Address(nil), empty.Address())
}

func TestPrivKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{31}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.Ed25519, b.Ed25519)
	// the seed is the first half of the key
	assert.Equal(t, seed, a.Ed25519[:32])

	other := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{32}, 32))
	assert.Equal(t, false, bytes.Equal(a.Ed25519, other.Ed25519))

	for name, seed := range map[string][]byte{
		"no seed":   nil,
		"too short": {0},
		"too long":  make([]byte, 33),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { PrivKeyEd25519FromSeed(seed) })
		})
	}
}
