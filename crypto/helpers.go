package crypto

import (
	"github.com/iov-one/escrowd"
)

// ExtensionName is the extension of every condition derived from a key.
const ExtensionName = "sigs"

// PubKey verifies signatures and names the condition they satisfy.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
}

// Signer signs messages. It never exposes the key material, so a hardware
// wallet can implement it.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)

// Address of the key condition, or nil for an empty key.
func (p *PublicKey) Address() weave.Address {
	if c := p.Condition(); c != nil {
		return c.Address()
	}
	return nil
}
