package state

import (
	"github.com/tipchune/tipchune/foundation/blockchain/database"
)

// ProcessProposedBlock takes a block received from a peer, verifies it
// against the full set of acceptance rules, and commits it to the
// ledger. The committed body is returned so the caller can inspect what
// was accepted. A rejected block leaves the ledger unchanged.
func (s *State) ProcessProposedBlock(block database.Block) (database.BlockBody, error) {
	s.evHandler("state: ProcessProposedBlock: started: parent[%s]: numTrans[%d]", block.Desc.ParentHash, len(block.Body.Transactions))
	defer s.evHandler("state: ProcessProposedBlock: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.db.Write(block)
	if err != nil {
		return database.BlockBody{}, err
	}

	return body, nil
}

// Verify runs the acceptance rules against a candidate block without
// committing anything.
func (s *State) Verify(block database.Block) error {
	return s.db.Verify(block)
}
