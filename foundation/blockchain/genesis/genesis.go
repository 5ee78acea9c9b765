// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultTransPerBlock is used when the genesis file does not specify a
// batch size.
const DefaultTransPerBlock = 16

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time         `json:"date"`
	Name          string            `json:"name"`            // A human readable name for this chain.
	Difficulty    uint              `json:"difficulty"`      // Number of leading zero bits a block digest must carry.
	TransPerBlock int               `json:"trans_per_block"` // Number of pending transactions that trigger block assembly.
	Balances      map[string]uint64 `json:"balances"`        // Value seeded to addresses by the genesis block.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load() (Genesis, error) {
	path := "zblock/genesis.json"
	return LoadFromFile(path)
}

// LoadFromFile opens and consumes the genesis file at the specified path.
func LoadFromFile(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.TransPerBlock == 0 {
		genesis.TransPerBlock = DefaultTransPerBlock
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis values are inside the ranges the ledger
// supports.
func (g Genesis) Validate() error {
	const maxDifficulty = 8

	if g.Difficulty > maxDifficulty {
		return fmt.Errorf("difficulty must be in [0,%d], got %d", maxDifficulty, g.Difficulty)
	}

	if g.TransPerBlock < 1 {
		return fmt.Errorf("trans_per_block must be at least 1, got %d", g.TransPerBlock)
	}

	return nil
}
