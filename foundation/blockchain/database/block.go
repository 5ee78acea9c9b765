package database

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

// maxDifficulty is the number of leading zero bits that can be demanded
// of a block digest's first byte.
const maxDifficulty = 8

// =============================================================================

// BlockDesc is the data attached to a block beyond its transactions: its
// position in the tree and the nonce that solves the work puzzle.
type BlockDesc struct {
	ParentHash signature.Digest `json:"parent_hash"` // Digest of the block this block extends.
	Nonce      uint64           `json:"nonce"`       // Value identified to solve the hash puzzle.
}

// BlockBody holds the transactions committed by a block. The transaction
// at index 0 is the base transaction.
type BlockBody struct {
	Transactions []Transaction `json:"transactions"`
}

// Block is a group of transactions bound to a parent block.
type Block struct {
	Desc BlockDesc `json:"desc"`
	Body BlockBody `json:"body"`
}

// NewBlock constructs a block extending the specified parent. The nonce
// starts at zero and is filled in by the mining step.
func NewBlock(trans []Transaction, parentHash signature.Digest) Block {
	return Block{
		Desc: BlockDesc{
			ParentHash: parentHash,
		},
		Body: BlockBody{
			Transactions: trans,
		},
	}
}

// Hash returns the unique digest for the block: parent digest, each
// transaction digest in order, then the nonce. This digest is the
// block's key in the ledger and the value the work puzzle is solved
// against.
func (b Block) Hash() (signature.Digest, error) {
	chunks := make([][]byte, 0, len(b.Body.Transactions)+2)
	chunks = append(chunks, b.Desc.ParentHash.Bytes())

	for _, tx := range b.Body.Transactions {
		digest, err := tx.Hash()
		if err != nil {
			return signature.Digest{}, err
		}
		chunks = append(chunks, digest.Bytes())
	}

	chunks = append(chunks, nonceBytes(b.Desc.Nonce))

	return signature.Hash(chunks...), nil
}

// BaseTransaction returns the transaction at index 0, the one that pays
// the block's fees to the beneficiary.
func (b Block) BaseTransaction() (Transaction, error) {
	if len(b.Body.Transactions) == 0 {
		return Transaction{}, fmt.Errorf("%w: block has no transactions", ErrMalformedBaseTransaction)
	}

	return b.Body.Transactions[0], nil
}

// =============================================================================

// POWArgs represents the set of arguments required to assemble and mine
// a new block.
type POWArgs struct {
	BeneficiaryID signature.Address
	Difficulty    uint
	ParentHash    signature.Digest
	Fees          uint64
	Trans         []Transaction
	EvHandler     func(v string, args ...any)
}

// POW assembles a block from the specified batch of transactions and
// performs the work to find a nonce that solves the hash puzzle. The
// base transaction paying the batch fees to the beneficiary is placed at
// index 0. The search operates on a snapshot of the intended parent and
// never touches ledger state.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	base := Transaction{
		Outputs: []TxOut{
			{Address: args.BeneficiaryID, Amount: args.Fees},
		},
	}

	trans := make([]Transaction, 0, len(args.Trans)+1)
	trans = append(trans, base)
	trans = append(trans, args.Trans...)

	nb := NewBlock(trans, args.ParentHash)

	if err := nb.performPOW(ctx, args.Difficulty, args.EvHandler); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a nonce that produces a
// digest satisfying the difficulty. Pointer semantics are being used
// since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: performPOW: MINING: started")
	defer ev("database: performPOW: MINING: completed")

	// Choose a random starting point for the nonce. After this, the nonce
	// is incremented by 1 until a solution is found.
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return err
	}
	b.Desc.Nonce = nBig.Uint64()

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: performPOW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: performPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		hash, err := b.Hash()
		if err != nil {
			return err
		}

		if !IsHashSolved(difficulty, hash) {
			b.Desc.Nonce++
			continue
		}

		ev("database: performPOW: MINING: SOLVED: parent[%s]: block[%s]", b.Desc.ParentHash, hash)
		ev("database: performPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}

// IsHashSolved checks the digest complies with the work rule: the top
// difficulty bits of the first byte must be zero. Difficulty is capped
// at 8 by genesis validation.
func IsHashSolved(difficulty uint, digest signature.Digest) bool {
	if difficulty > maxDifficulty {
		return false
	}

	return digest[0]&^(0xFF>>difficulty) == 0
}

// nonceBytes returns the nonce in its fixed 16 byte little endian wire
// width.
func nonceBytes(nonce uint64) []byte {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data, nonce)
	return data
}
