package database

import (
	"encoding/binary"
	"fmt"

	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

// TxOut represents value held by an address. Once created inside an
// accepted block it is immutable and spendable exactly once.
type TxOut struct {
	Address signature.Address `json:"address"` // Address of the account receiving the value.
	Amount  uint64            `json:"amount"`  // Value being transferred.
}

// Hash returns the unique digest for this output.
func (tx TxOut) Hash() signature.Digest {
	return signature.Hash(tx.Address[:], uint64LE(tx.Amount))
}

// =============================================================================

// TxOutPtr references an output of a prior transaction by the digest of
// that transaction and the position of the output in its output list.
type TxOutPtr struct {
	TxDigest signature.Digest `json:"tx_digest"` // Digest of the transaction holding the output.
	Index    uint64           `json:"index"`     // Index of the output in that transaction.
}

// =============================================================================

// TxIn spends one prior output. It carries the spender's public key and a
// signature over the input's own fingerprint as proof of ownership.
type TxIn struct {
	Signature signature.Signature `json:"signature"`  // Proof the spender owns the source output.
	PublicKey signature.PublicKey `json:"public_key"` // Key used to verify the signature.
	Source    TxOutPtr            `json:"source"`     // Output being consumed.
}

// NewTxIn constructs an input spending the specified output, signed with
// the owner's private key.
func NewTxIn(privateKey signature.PrivateKey, source TxOutPtr) (TxIn, error) {
	tx := TxIn{
		PublicKey: privateKey.PublicKey(),
		Source:    source,
	}

	fingerprint, err := tx.Fingerprint()
	if err != nil {
		return TxIn{}, err
	}

	sig, err := privateKey.Sign(fingerprint)
	if err != nil {
		return TxIn{}, fmt.Errorf("unable to sign input: %w", err)
	}
	tx.Signature = sig

	return tx, nil
}

// Fingerprint returns the digest the input's signature must cover: the
// spender's key and the identity of the output being consumed. It binds
// the signature to this one input, not to the rest of the transaction.
func (tx TxIn) Fingerprint() (signature.Digest, error) {
	keyHash, err := tx.PublicKey.Hash()
	if err != nil {
		return signature.Digest{}, err
	}

	return signature.Hash(keyHash[:], tx.Source.TxDigest[:], uint64LE(tx.Source.Index)), nil
}

// Hash returns the unique digest for this input, covering the signature
// as well as the fingerprint material.
func (tx TxIn) Hash() (signature.Digest, error) {
	keyHash, err := tx.PublicKey.Hash()
	if err != nil {
		return signature.Digest{}, err
	}

	return signature.Hash(tx.Signature, keyHash[:], tx.Source.TxDigest[:], uint64LE(tx.Source.Index)), nil
}

// findSource resolves the output this input is spending. Outputs created
// by other transactions inside the same candidate block take precedence,
// then the committed ledger is consulted.
func (tx TxIn) findSource(local map[signature.Digest]Transaction, committed map[signature.Digest]Transaction) (TxOut, error) {
	source, exists := local[tx.Source.TxDigest]
	if !exists {
		source, exists = committed[tx.Source.TxDigest]
		if !exists {
			return TxOut{}, fmt.Errorf("%w: tx %s", ErrDanglingReference, tx.Source.TxDigest)
		}
	}

	if tx.Source.Index >= uint64(len(source.Outputs)) {
		return TxOut{}, fmt.Errorf("%w: tx %s index %d out of range", ErrDanglingReference, tx.Source.TxDigest, tx.Source.Index)
	}

	return source.Outputs[tx.Source.Index], nil
}

// =============================================================================

// Transaction represents a transfer of value: a set of outputs being
// consumed and a set of new outputs being created.
type Transaction struct {
	Inputs  []TxIn  `json:"inputs"`  // Outputs consumed by this transaction.
	Outputs []TxOut `json:"outputs"` // Outputs created by this transaction.
}

// Hash returns the unique digest for this transaction, covering every
// input digest then every output digest in order.
func (tx Transaction) Hash() (signature.Digest, error) {
	chunks := make([][]byte, 0, len(tx.Inputs)+len(tx.Outputs))

	for _, input := range tx.Inputs {
		digest, err := input.Hash()
		if err != nil {
			return signature.Digest{}, err
		}
		chunks = append(chunks, digest.Bytes())
	}

	for _, output := range tx.Outputs {
		digest := output.Hash()
		chunks = append(chunks, digest.Bytes())
	}

	return signature.Hash(chunks...), nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	digest, err := tx.Hash()
	if err != nil {
		return "unknown"
	}

	return fmt.Sprintf("%s:in[%d]:out[%d]", digest, len(tx.Inputs), len(tx.Outputs))
}

// =============================================================================

// uint64LE returns the fixed width little endian encoding used for
// amounts and indexes inside digests.
func uint64LE(v uint64) []byte {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, v)
	return data
}
