package database_test

import (
	"testing"

	"github.com/tipchune/tipchune/foundation/blockchain/database"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

func Test_IsHashSolved(t *testing.T) {
	type table struct {
		name       string
		firstByte  byte
		difficulty uint
		solved     bool
	}

	// 0b0001_1010 carries three leading zero bits.
	tt := []table{
		{"zero difficulty always solved", 0b0001_1010, 0, true},
		{"one leading zero bit", 0b0001_1010, 1, true},
		{"two leading zero bits", 0b0001_1010, 2, true},
		{"three leading zero bits", 0b0001_1010, 3, true},
		{"four leading zero bits fails", 0b0001_1010, 4, false},
		{"max difficulty requires zero byte", 0b0000_0001, 8, false},
		{"max difficulty with zero byte", 0b0000_0000, 8, true},
		{"full byte fails all but zero", 0b1111_1111, 1, false},
		{"full byte passes zero difficulty", 0b1111_1111, 0, true},
	}

	t.Log("Given the need to validate the proof of work predicate.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking a digest starting with %#08b at difficulty %d.", testID, tst.firstByte, tst.difficulty)
			{
				f := func(t *testing.T) {
					var digest signature.Digest
					digest[0] = tst.firstByte
					for i := 1; i < len(digest); i++ {
						digest[i] = byte(i)
					}

					solved := database.IsHashSolved(tst.difficulty, digest)
					if solved != tst.solved {
						t.Fatalf("\t%s\tTest %d:\tShould get solved %v, got %v.", failed, testID, tst.solved, solved)
					}
					t.Logf("\t%s\tTest %d:\tShould get solved %v.", success, testID, tst.solved)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
