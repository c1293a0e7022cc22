package crypto

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"golang.org/x/crypto/ed25519"
)

// Verify returns true only for a well formed signature of message made by
// this key.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	pub, raw := p.GetEd25519(), sig.GetEd25519()
	if len(pub) != ed25519.PublicKeySize || len(raw) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, raw)
}

// Condition is sigs/ed25519/<public key>. An empty key has no condition.
func (p *PublicKey) Condition() weave.Condition {
	if len(p.GetEd25519()) == 0 {
		return nil
	}
	return weave.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	key, err := p.key()
	if err != nil {
		return nil, err
	}
	return &Signature{Ed25519: ed25519.Sign(key, message)}, nil
}

// PublicKey returns an empty key if the private key is malformed.
func (p *PrivateKey) PublicKey() *PublicKey {
	key, err := p.key()
	if err != nil {
		return &PublicKey{}
	}
	return &PublicKey{Ed25519: key.Public().(ed25519.PublicKey)}
}

func (p *PrivateKey) key() (ed25519.PrivateKey, error) {
	raw := p.GetEd25519()
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "ed25519 private key of %d bytes", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}

// GenPrivKeyEd25519 returns a new random key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed derives a key from a 32 byte seed. It panics for
// any other seed size.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
