package signature_test

import (
	"bytes"
	"testing"

	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_SignVerify(t *testing.T) {
	t.Log("Given the need to verify signatures round trip.")
	{
		t.Logf("\tTest 0:\tWhen signing a digest with a fresh key pair.")
		{
			privateKey, err := signature.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a key.", success)

			digest := signature.Hash([]byte("the brown fox"))

			sig, err := privateKey.Sign(digest)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the digest: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to sign the digest.", success)

			if err := privateKey.PublicKey().Verify(digest, sig); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to verify the signature: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to verify the signature.", success)

			otherDigest := signature.Hash([]byte("the lazy dog"))
			if err := privateKey.PublicKey().Verify(otherDigest, sig); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould not verify against a different digest.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify against a different digest.", success)

			otherKey, err := signature.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a second key: %v", failed, err)
			}
			if err := otherKey.PublicKey().Verify(digest, sig); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould not verify against a different key.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify against a different key.", success)
		}
	}
}

func Test_Address(t *testing.T) {
	t.Log("Given the need to derive addresses from public keys.")
	{
		t.Logf("\tTest 0:\tWhen hashing the canonical key encoding.")
		{
			privateKey, err := signature.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %v", failed, err)
			}

			publicKey := privateKey.PublicKey()

			encoded, err := publicKey.Encode()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to encode the public key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to encode the public key.", success)

			address, err := publicKey.Address()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to derive the address: %v", failed, err)
			}

			exp := signature.Address(signature.Hash(encoded))
			if address != exp {
				t.Fatalf("\t%s\tTest 0:\tShould have the address equal the digest of the key encoding.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have the address equal the digest of the key encoding.", success)
		}
	}
}

func Test_HashOrderSensitive(t *testing.T) {
	t.Log("Given the need for content addresses to be order sensitive.")
	{
		t.Logf("\tTest 0:\tWhen hashing the same chunks in different orders.")
		{
			a := signature.Hash([]byte("alpha"), []byte("beta"))
			b := signature.Hash([]byte("beta"), []byte("alpha"))
			if a == b {
				t.Fatalf("\t%s\tTest 0:\tShould produce different digests for different chunk orders.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce different digests for different chunk orders.", success)

			c := signature.Hash([]byte("alpha"), []byte("beta"))
			if !bytes.Equal(a.Bytes(), c.Bytes()) {
				t.Fatalf("\t%s\tTest 0:\tShould produce the same digest for the same input.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce the same digest for the same input.", success)
		}
	}
}
