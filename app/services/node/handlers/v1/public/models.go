package public

import (
	"github.com/tipchune/tipchune/foundation/blockchain/database"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

// submitTxResponse reports what became of a submitted transaction. The
// block hash is present only when the submission completed a batch.
type submitTxResponse struct {
	Status    string            `json:"status"`
	BlockHash *signature.Digest `json:"block_hash,omitempty"`
}

// tipResponse carries the trusted tip of the chain.
type tipResponse struct {
	Hash   signature.Digest `json:"hash"`
	Height uint64           `json:"height"`
}

// blockResponse carries an accepted block's bookkeeping.
type blockResponse struct {
	Hash   signature.Digest   `json:"hash"`
	Height uint64             `json:"height"`
	Desc   database.BlockDesc `json:"desc"`
}
