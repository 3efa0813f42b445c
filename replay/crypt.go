package replay

import (
	"golang.org/x/crypto/blowfish"
)

// cipherBlockSize is the Blowfish block size; the encrypted trailer is
// always padded to a multiple of it.
const cipherBlockSize = 8

// replayKey is the fixed Blowfish key shared by every replay file. It is a
// constant of the format, not configurable.
var replayKey = [16]byte{
	0xDE, 0x72, 0xBE, 0xA0, 0xDE, 0x04, 0xBE, 0xB1,
	0xDE, 0xFE, 0xBE, 0xEF, 0xDE, 0xAD, 0xBE, 0xEF,
}

// Decrypt decrypts the replay trailer. The chaining is not CBC: each block
// is decrypted independently and then XORed with the *plaintext* of the
// previous block (zero for the first block), and that XORed result carries
// forward as the next block's feedback value:
//
//	plaintext[i] = blowfishDecrypt(ciphertext[i]) XOR plaintext[i-1]
//
// No library chaining mode matches this rule, so it is spelled out block by
// block here. Input length must be a multiple of 8 bytes.
func Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%cipherBlockSize != 0 {
		return nil, &CryptoError{Op: "decrypt", Err: ErrCipherBlockAlign}
	}

	cipher, err := blowfish.NewCipher(replayKey[:])
	if err != nil {
		return nil, &CryptoError{Op: "decrypt", Err: err}
	}

	plaintext := make([]byte, len(ciphertext))
	var prev [cipherBlockSize]byte
	var block [cipherBlockSize]byte

	for off := 0; off < len(ciphertext); off += cipherBlockSize {
		cipher.Decrypt(block[:], ciphertext[off:off+cipherBlockSize])
		for j := range block {
			block[j] ^= prev[j]
		}
		prev = block
		copy(plaintext[off:], block[:])
	}
	return plaintext, nil
}
