package replay

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/crypto/blowfish"
)

// chainEncrypt is the inverse of Decrypt, used to build test ciphertext:
// ciphertext[i] = blowfishEncrypt(plaintext[i] XOR plaintext[i-1]), with an
// all-zero block standing in for plaintext[-1]. plain must already be padded
// to whole cipher blocks.
func chainEncrypt(t *testing.T, plain []byte) []byte {
	t.Helper()
	if len(plain)%cipherBlockSize != 0 {
		t.Fatalf("chainEncrypt: plaintext length %d not block-aligned", len(plain))
	}
	cipher, err := blowfish.NewCipher(replayKey[:])
	if err != nil {
		t.Fatalf("chainEncrypt: %v", err)
	}
	out := make([]byte, len(plain))
	var prev [cipherBlockSize]byte
	var block [cipherBlockSize]byte
	for off := 0; off < len(plain); off += cipherBlockSize {
		for j := 0; j < cipherBlockSize; j++ {
			block[j] = plain[off+j] ^ prev[j]
		}
		cipher.Encrypt(out[off:off+cipherBlockSize], block[:])
		copy(prev[:], plain[off:off+cipherBlockSize])
	}
	return out
}

func TestDecryptChain(t *testing.T) {
	cases := []struct {
		name  string
		plain []byte
	}{
		{"one block", []byte("8bytes!!")},
		{"three blocks", []byte("the quick brown fox jump")},
		{"four blocks with zeros", append(make([]byte, 16), []byte("tail end padding")...)},
		{"repeating blocks", bytes.Repeat([]byte{0xAB, 0xCD}, 16)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decrypt(chainEncrypt(t, tc.plain))
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(got, tc.plain) {
				t.Errorf("Decrypt mismatch\n got %x\nwant %x", got, tc.plain)
			}
		})
	}
}

// The feedback must use the previous *plaintext* output, not the previous
// ciphertext block as true CBC would. Identical plaintext blocks therefore
// produce different ciphertext blocks under chainEncrypt, and flipping the
// first ciphertext block corrupts every later plaintext block, not just two.
func TestDecryptFeedbackIsPlaintext(t *testing.T) {
	plain := bytes.Repeat([]byte{0x11}, 24)
	ciphertext := chainEncrypt(t, plain)

	if bytes.Equal(ciphertext[0:8], ciphertext[8:16]) {
		t.Fatal("identical plaintext blocks encrypted identically; feedback chain not applied")
	}

	ciphertext[0] ^= 0xFF
	got, err := Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if bytes.Equal(got[16:24], plain[16:24]) {
		t.Error("third block unaffected by first-block corruption; chaining followed CBC semantics")
	}
}

func TestDecryptBadLength(t *testing.T) {
	for _, n := range []int{1, 7, 9, 15} {
		_, err := Decrypt(make([]byte, n))
		if !errors.Is(err, ErrCipherBlockAlign) {
			t.Errorf("Decrypt(%d bytes): err = %v, want ErrCipherBlockAlign", n, err)
		}
		var ce *CryptoError
		if !errors.As(err, &ce) {
			t.Errorf("Decrypt(%d bytes): err = %T, want *CryptoError", n, err)
		}
	}
}

func TestDecryptEmpty(t *testing.T) {
	got, err := Decrypt(nil)
	if err != nil {
		t.Fatalf("Decrypt(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decrypt(nil) = %d bytes, want 0", len(got))
	}
}
