package replay

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflate decompresses the decrypted trailer. sizeHint is the envelope's
// decompressed-size field; it only pre-sizes the output buffer and is never
// validated against the actual length, since real files carry approximate
// hints.
func inflate(data []byte, sizeHint uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &CryptoError{Op: "inflate", Err: err}
	}
	defer zr.Close()

	buf := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, &CryptoError{Op: "inflate", Err: err}
	}
	return buf.Bytes(), nil
}
