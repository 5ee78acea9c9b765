package state

import (
	"context"
	"fmt"

	"github.com/tipchune/tipchune/foundation/blockchain/database"
)

// Action describes the side effect a caller is responsible for carrying
// out after a submission. The core never performs networking itself.
type Action struct {
	// Broadcast is the accepted block that should be propagated to
	// peers. A nil value means there is nothing to do yet.
	Broadcast *database.Block
}

// None reports whether the action requires no work from the caller.
func (a Action) None() bool {
	return a.Broadcast == nil
}

// =============================================================================

// SubmitTransaction accepts a transaction into the pending pool. When
// the pool reaches the configured batch size, the pool is drained into a
// candidate block addressed at the current tip, the work puzzle is
// solved, and the block is committed. The returned action tells the
// caller whether a block now needs to be broadcast. On assembly or
// acceptance failure the drained batch is not requeued; the caller
// decides the retry policy.
func (s *State) SubmitTransaction(ctx context.Context, tx database.Transaction) (Action, error) {
	s.evHandler("state: SubmitTransaction: started: tx[%s]", tx)
	defer s.evHandler("state: SubmitTransaction: completed")

	if err := validateTransaction(tx); err != nil {
		return Action{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.mempool.Append(tx)
	s.evHandler("state: SubmitTransaction: mempool[%d/%d]", count, s.genesis.TransPerBlock)

	if count < s.genesis.TransPerBlock {
		return Action{}, nil
	}

	trans := s.mempool.Drain()

	block, err := s.assembleBlock(ctx, trans)
	if err != nil {
		return Action{}, err
	}

	if _, err := s.db.Write(block); err != nil {
		return Action{}, err
	}

	return Action{Broadcast: &block}, nil
}

// assembleBlock builds and mines a candidate block from the specified
// batch, financed by the batch fees and addressed at the current tip.
func (s *State) assembleBlock(ctx context.Context, trans []database.Transaction) (database.Block, error) {
	fees, err := s.db.Fees(trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: assembleBlock: batch[%d] fees[%d]", len(trans), fees)

	block, err := database.POW(ctx, database.POWArgs{
		BeneficiaryID: s.beneficiaryID,
		Difficulty:    s.db.Difficulty(),
		ParentHash:    s.db.LatestBlockHash(),
		Fees:          fees,
		Trans:         trans,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// validateTransaction checks the parts of a transaction that can be
// checked without ledger state: every input's signature must verify
// against that input's own fingerprint. Source resolution, ownership,
// and balance are checked when the enclosing block is verified.
func validateTransaction(tx database.Transaction) error {
	for i, input := range tx.Inputs {
		fingerprint, err := input.Fingerprint()
		if err != nil {
			return err
		}

		if err := input.PublicKey.Verify(fingerprint, input.Signature); err != nil {
			return fmt.Errorf("%w: input[%d]: %s", database.ErrInvalidSignature, i, err)
		}
	}

	return nil
}
