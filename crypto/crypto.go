package crypto

import (
	"bytes"
	"fmt"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/crossledger/crossledger/common"
)

// SignatureLength is the length of a recoverable ECDSA signature: 1 byte
// recovery id + 64 bytes [R || S].
const SignatureLength = 65

// PrivateKey represents the private key of a participant or validator.
type PrivateKey struct {
	privKey *secp256k1.PrivateKey
}

// GenerateKeyPair generates a random private/public key pair.
func GenerateKeyPair() (*PrivateKey, *PublicKey, error) {
	privKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, err
	}
	return &PrivateKey{privKey: privKey}, &PublicKey{pubKey: privKey.PubKey()}, nil
}

// PrivateKeyFromBytes converts the given bytes to a private key.
func PrivateKeyFromBytes(skBytes common.Bytes) (*PrivateKey, error) {
	if len(skBytes) != 32 {
		return nil, fmt.Errorf("invalid private key length: %v", len(skBytes))
	}
	return &PrivateKey{privKey: secp256k1.PrivKeyFromBytes(skBytes)}, nil
}

// PublicKey returns the public key corresponding to the private key.
func (sk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{pubKey: sk.privKey.PubKey()}
}

// ToBytes returns the bytes representation of the private key.
func (sk *PrivateKey) ToBytes() common.Bytes {
	return sk.privKey.Serialize()
}

// Sign signs the given message with the private key. The message is hashed
// with keccak-256 prior to signing.
func (sk *PrivateKey) Sign(msg common.Bytes) (*Signature, error) {
	msgHash := Keccak256(msg)
	data := secpecdsa.SignCompact(sk.privKey, msgHash, false)
	return &Signature{data: data}, nil
}

// PublicKey represents the public key of a participant or validator.
type PublicKey struct {
	pubKey *secp256k1.PublicKey
}

// PublicKeyFromBytes converts the given bytes to a public key.
func PublicKeyFromBytes(pkBytes common.Bytes) (*PublicKey, error) {
	pubKey, err := secp256k1.ParsePubKey(pkBytes)
	if err != nil {
		return nil, err
	}
	return &PublicKey{pubKey: pubKey}, nil
}

// ToBytes returns the bytes representation of the public key in the
// uncompressed format.
func (pk *PublicKey) ToBytes() common.Bytes {
	return pk.pubKey.SerializeUncompressed()
}

// Address returns the address corresponding to the public key.
func (pk *PublicKey) Address() common.Address {
	pubBytes := pk.pubKey.SerializeUncompressed()
	return common.BytesToAddress(Keccak256(pubBytes[1:])[12:])
}

// IsEmpty indicates whether the public key is empty.
func (pk *PublicKey) IsEmpty() bool {
	return pk == nil || pk.pubKey == nil
}

// VerifySignature verifies the signature with the public key. The message is
// hashed with keccak-256 prior to verification.
func (pk *PublicKey) VerifySignature(msg common.Bytes, sig *Signature) bool {
	if sig.IsEmpty() || len(sig.data) != SignatureLength {
		return false
	}
	msgHash := Keccak256(msg)
	recovered, _, err := secpecdsa.RecoverCompact(sig.data, msgHash)
	if err != nil {
		return false
	}
	return bytes.Equal(recovered.SerializeUncompressed(), pk.pubKey.SerializeUncompressed())
}

// Signature represents a recoverable ECDSA signature.
type Signature struct {
	data common.Bytes
}

// SignatureFromBytes converts the given bytes to a signature.
func SignatureFromBytes(sigBytes common.Bytes) (*Signature, error) {
	if len(sigBytes) != SignatureLength {
		return nil, fmt.Errorf("invalid signature length: %v", len(sigBytes))
	}
	return &Signature{data: common.CopyBytes(sigBytes)}, nil
}

// ToBytes returns the bytes representation of the signature.
func (sig *Signature) ToBytes() common.Bytes {
	return sig.data
}

// IsEmpty indicates whether the signature is empty.
func (sig *Signature) IsEmpty() bool {
	return sig == nil || len(sig.data) == 0
}

func (sig *Signature) String() string {
	return sig.data.String()
}

// MarshalText implements encoding.TextMarshaler.
func (sig *Signature) MarshalText() ([]byte, error) {
	return []byte(sig.data.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sig *Signature) UnmarshalText(input []byte) error {
	dec := common.FromHex(string(input))
	if len(dec) != SignatureLength {
		return fmt.Errorf("invalid signature length: %v", len(dec))
	}
	sig.data = dec
	return nil
}

// RecoverSigner returns the address that produced the signature over the
// given message.
func RecoverSigner(msg common.Bytes, sig *Signature) (common.Address, error) {
	if sig.IsEmpty() || len(sig.data) != SignatureLength {
		return common.Address{}, fmt.Errorf("cannot recover signer from malformed signature")
	}
	msgHash := Keccak256(msg)
	recovered, _, err := secpecdsa.RecoverCompact(sig.data, msgHash)
	if err != nil {
		return common.Address{}, err
	}
	pubBytes := recovered.SerializeUncompressed()
	return common.BytesToAddress(Keccak256(pubBytes[1:])[12:]), nil
}
