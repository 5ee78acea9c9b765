package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tipchune/tipchune/foundation/blockchain/genesis"
)

const (
	success = "✓"
	failed  = "✗"
)

func Test_LoadFromFile(t *testing.T) {
	t.Log("Given the need to load a genesis file from disk.")
	{
		t.Logf("\tTest 0:\tWhen the file specifies every field.")
		{
			doc := `{
				"date": "2022-04-01T00:00:00Z",
				"name": "test chain",
				"difficulty": 3,
				"trans_per_block": 8,
				"balances": {
					"0x77e065cdbf05bb2c8a238765859be93ddd6fa763dc6b0c19b4dbdf601ec9b845": 500
				}
			}`

			g, err := genesis.LoadFromFile(writeGenesis(t, doc))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the file: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to load the file.", success)

			if g.Name != "test chain" || g.Difficulty != 3 || g.TransPerBlock != 8 {
				t.Fatalf("\t%s\tTest 0:\tShould get the configured values back, got %+v.", failed, g)
			}
			t.Logf("\t%s\tTest 0:\tShould get the configured values back.", success)

			if len(g.Balances) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould get 1 balance, got %d.", failed, len(g.Balances))
			}
			t.Logf("\t%s\tTest 0:\tShould get 1 balance.", success)
		}

		t.Logf("\tTest 1:\tWhen the batch size is omitted.")
		{
			doc := `{
				"date": "2022-04-01T00:00:00Z",
				"name": "test chain",
				"difficulty": 1,
				"balances": {}
			}`

			g, err := genesis.LoadFromFile(writeGenesis(t, doc))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to load the file: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to load the file.", success)

			if g.TransPerBlock != genesis.DefaultTransPerBlock {
				t.Fatalf("\t%s\tTest 1:\tShould default the batch size to %d, got %d.", failed, genesis.DefaultTransPerBlock, g.TransPerBlock)
			}
			t.Logf("\t%s\tTest 1:\tShould default the batch size to %d.", success, genesis.DefaultTransPerBlock)
		}

		t.Logf("\tTest 2:\tWhen the difficulty is out of range.")
		{
			doc := `{
				"date": "2022-04-01T00:00:00Z",
				"name": "test chain",
				"difficulty": 9,
				"trans_per_block": 8,
				"balances": {}
			}`

			if _, err := genesis.LoadFromFile(writeGenesis(t, doc)); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a difficulty above 8.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a difficulty above 8.", success)
		}
	}
}

func Test_Validate(t *testing.T) {
	t.Log("Given the need to validate genesis values.")
	{
		t.Logf("\tTest 0:\tWhen checking the supported ranges.")
		{
			g := genesis.Genesis{Difficulty: 8, TransPerBlock: 1}
			if err := g.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the boundary values: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the boundary values.", success)

			g = genesis.Genesis{Difficulty: 0, TransPerBlock: 0}
			if err := g.Validate(); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a zero batch size.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a zero batch size.", success)
		}
	}
}

func writeGenesis(t *testing.T, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("\t%s\tShould be able to write the genesis file: %v", failed, err)
	}

	return path
}
