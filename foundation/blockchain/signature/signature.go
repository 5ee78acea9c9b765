// Package signature provides the hashing and key support the ledger is
// built on: digests, addresses, and the asymmetric keys used to prove
// ownership of transaction outputs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// DigestSize is the number of bytes in a digest.
const DigestSize = sha256.Size

// ZeroDigest represents a digest of all zeros. It is the parent of the
// genesis block.
var ZeroDigest Digest

// ErrEncoding is returned when key material can't be canonically encoded.
var ErrEncoding = errors.New("unable to encode public key")

// =============================================================================

// Digest is a fixed size content address. Every transaction, block, and
// public key in the system is identified by its digest.
type Digest [DigestSize]byte

// Hash returns the digest of the specified chunks of data. The chunks are
// fed to the hash in order so the result is sensitive to both content
// and position.
func Hash(chunks ...[]byte) Digest {
	h := sha256.New()
	for _, chunk := range chunks {
		h.Write(chunk)
	}

	var digest Digest
	h.Sum(digest[:0])
	return digest
}

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	return d[:]
}

// String implements the fmt.Stringer interface for logging.
func (d Digest) String() string {
	return hexutil.Encode(d[:])
}

// MarshalText implements encoding.TextMarshaler so digests read as
// 0x prefixed hex in JSON documents.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(d[:])), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(data []byte) error {
	raw, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}
	if len(raw) != DigestSize {
		return fmt.Errorf("invalid digest length, got %d, exp %d", len(raw), DigestSize)
	}

	copy(d[:], raw)
	return nil
}

// =============================================================================

// Address identifies the account that owns a transaction output. It is the
// digest of the owner's public key and is the only credential needed to
// receive value.
type Address Digest

// String implements the fmt.Stringer interface for logging.
func (a Address) String() string {
	return Digest(a).String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return Digest(a).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(data []byte) error {
	return (*Digest)(a).UnmarshalText(data)
}

// ToAddress converts a hex-encoded string to an address and validates the
// hex-encoded string is formatted correctly.
func ToAddress(hex string) (Address, error) {
	var a Address
	if err := a.UnmarshalText([]byte(hex)); err != nil {
		return Address{}, fmt.Errorf("invalid address format: %w", err)
	}

	return a, nil
}

// =============================================================================

// Signature holds the raw bytes of a signature over a digest.
type Signature []byte

// String implements the fmt.Stringer interface for logging.
func (s Signature) String() string {
	return hexutil.Encode(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(data []byte) error {
	raw, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}

	*s = raw
	return nil
}

// =============================================================================

// PublicKey is used to verify the signature carried by a transaction
// input. Its digest is the owner's address.
type PublicKey struct {
	key *ecdsa.PublicKey
}

// ToPublicKey constructs a public key from its canonical encoding.
func ToPublicKey(data []byte) (PublicKey, error) {
	key, err := crypto.UnmarshalPubkey(data)
	if err != nil {
		return PublicKey{}, fmt.Errorf("unable to decode public key: %w", err)
	}

	return PublicKey{key: key}, nil
}

// Encode returns the canonical encoding of the public key.
func (pk PublicKey) Encode() ([]byte, error) {
	if pk.key == nil {
		return nil, ErrEncoding
	}

	data := crypto.FromECDSAPub(pk.key)
	if data == nil {
		return nil, ErrEncoding
	}

	return data, nil
}

// Hash returns the digest of the canonical encoding of the public key.
func (pk PublicKey) Hash() (Digest, error) {
	data, err := pk.Encode()
	if err != nil {
		return Digest{}, err
	}

	return Hash(data), nil
}

// Address returns the address owned by this public key.
func (pk PublicKey) Address() (Address, error) {
	digest, err := pk.Hash()
	if err != nil {
		return Address{}, err
	}

	return Address(digest), nil
}

// Verify checks the signature was produced over the specified digest by
// the private key matching this public key. A bad signature is reported
// as an ordinary error, it never panics.
func (pk PublicKey) Verify(digest Digest, sig Signature) error {
	data, err := pk.Encode()
	if err != nil {
		return err
	}

	if len(sig) < crypto.RecoveryIDOffset {
		return errors.New("invalid signature length")
	}

	if !crypto.VerifySignature(data, digest[:], sig[:crypto.RecoveryIDOffset]) {
		return errors.New("signature does not verify against public key")
	}

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	data, err := pk.Encode()
	if err != nil {
		return nil, err
	}

	return []byte(hexutil.Encode(data)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(data []byte) error {
	raw, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}

	key, err := crypto.UnmarshalPubkey(raw)
	if err != nil {
		return err
	}

	pk.key = key
	return nil
}

// =============================================================================

// PrivateKey signs transaction inputs. It is never serialized or sent
// over the wire.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// GenerateKey constructs a new random private key.
func GenerateKey() (PrivateKey, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return PrivateKey{}, fmt.Errorf("unable to generate key: %w", err)
	}

	return PrivateKey{key: key}, nil
}

// LoadKey reads a private key from the specified file in the same format
// used by the wallet tooling.
func LoadKey(path string) (PrivateKey, error) {
	key, err := crypto.LoadECDSA(path)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("unable to load private key: %w", err)
	}

	return PrivateKey{key: key}, nil
}

// Save writes the private key to the specified file.
func (pk PrivateKey) Save(path string) error {
	return crypto.SaveECDSA(path, pk.key)
}

// PublicKey returns the public half of the key pair.
func (pk PrivateKey) PublicKey() PublicKey {
	return PublicKey{key: &pk.key.PublicKey}
}

// Sign produces a signature over the specified digest.
func (pk PrivateKey) Sign(digest Digest) (Signature, error) {
	sig, err := crypto.Sign(digest[:], pk.key)
	if err != nil {
		return nil, fmt.Errorf("unable to sign digest: %w", err)
	}

	return sig, nil
}
