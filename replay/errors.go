package replay

import (
	"errors"
	"fmt"
)

// Sentinel causes. Wrap them in FormatError/CryptoError so callers can match
// either the category or the specific cause with errors.Is.
var (
	ErrBadMagic          = errors.New("bad magic")
	ErrZeroMetadataBlock = errors.New("zero-length metadata block")
	ErrCipherBlockAlign  = errors.New("ciphertext length not a multiple of cipher block size")
)

// FormatError reports a structural problem in the replay envelope or packet
// stream. Always fatal for the file being decoded.
type FormatError struct {
	Section string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("replay format: %s: %v", e.Section, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// TruncatedError reports that a section declared more bytes than the input
// had left.
type TruncatedError struct {
	Section string
	Need    int
	Have    int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("replay format: %s truncated: need %d bytes, have %d", e.Section, e.Need, e.Have)
}

// CryptoError reports a failure in the decrypt or inflate stages.
// Always fatal for the file being decoded.
type CryptoError struct {
	Op  string // "decrypt" or "inflate"
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("replay %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// MetadataError reports unparseable JSON in a metadata block. Fatal for the
// first block; the results block recovers locally and never surfaces one.
type MetadataError struct {
	Block string
	Err   error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("replay metadata %s: %v", e.Block, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }
