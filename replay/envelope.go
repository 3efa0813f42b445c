// Package replay decodes .wotreplay files: the JSON metadata blocks of the
// envelope plus the encrypted, compressed trailer holding the recorded
// client/server packet stream.
package replay

import (
	"encoding/binary"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// Magic is the fixed little-endian magic number opening every replay file.
const Magic uint32 = 0x11343212

// BattleConfig is the first metadata block, parsed verbatim. No field is
// validated beyond being well-formed JSON.
type BattleConfig struct {
	PlayerName           string `json:"playerName"`
	PlayerVehicle        string `json:"playerVehicle"`
	ClientVersionFromXML string `json:"clientVersionFromXml"`
	ClientVersionFromExe string `json:"clientVersionFromExe"`
	DateTime             string `json:"dateTime"`
	MapName              string `json:"mapName"`
	GameplayID           string `json:"gameplayID"`
}

// Replay is one fully decoded replay container. PacketData holds the
// decrypted and decompressed trailer, framed per the packet stream layout.
// Immutable after Parse returns.
type Replay struct {
	Magic         uint32          `json:"magic"`
	BlockCount    uint32          `json:"blockCount"`
	BattleConfig  BattleConfig    `json:"battleConfig"`
	BattleResults json.RawMessage `json:"battleResults,omitempty"` // nil when absent or unreadable
	PacketData    []byte          `json:"-"`
}

// Packets returns a fresh stream over the decoded packet bytes.
func (r *Replay) Packets() *PacketStream {
	return NewPacketStream(r.PacketData)
}

// ParseFile reads and decodes a single replay file.
func ParseFile(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes one replay from an in-memory buffer.
//
// Envelope layout, all integers little-endian: magic, block count, one
// length-prefixed JSON block (battle config), an optional second
// length-prefixed JSON block (battle results, present when block count is at
// least 2), then the binary trailer: decompressed-size hint, compressed
// size, and the ciphertext padded to whole cipher blocks.
func Parse(data []byte) (*Replay, error) {
	c := cursor{data: data}

	magic, err := c.uint32("magic")
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, &FormatError{Section: "magic", Err: ErrBadMagic}
	}

	blockCount, err := c.uint32("block count")
	if err != nil {
		return nil, err
	}

	r := &Replay{Magic: magic, BlockCount: blockCount}

	configRaw, err := c.sizedBlock("battle config")
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configRaw, &r.BattleConfig); err != nil {
		return nil, &MetadataError{Block: "battle config", Err: err}
	}

	// The results block is frequently missing or mangled in replays saved
	// from crashed or quit-early sessions. Recover locally: the results are
	// treated as absent and the parse carries on to the trailer.
	if blockCount >= 2 {
		if resultsRaw, err := c.sizedBlock("battle results"); err == nil {
			if json.Valid(resultsRaw) {
				r.BattleResults = json.RawMessage(resultsRaw)
			} else {
				log.Debug().Msg("battle results block is not valid JSON, treating as absent")
			}
		} else {
			log.Debug().Err(err).Msg("battle results block unreadable, treating as absent")
		}
	}

	decompressedSize, err := c.uint32("decompressed size")
	if err != nil {
		return nil, err
	}
	compressedSize, err := c.uint32("compressed size")
	if err != nil {
		return nil, err
	}

	// Ciphertext is padded up to whole 8-byte cipher blocks.
	encryptedLen := (int(compressedSize) + cipherBlockSize - 1) / cipherBlockSize * cipherBlockSize
	ciphertext, err := c.bytes("ciphertext", encryptedLen)
	if err != nil {
		return nil, err
	}

	plaintext, err := Decrypt(ciphertext)
	if err != nil {
		return nil, err
	}
	// Past compressedSize is cipher padding, not plaintext.
	r.PacketData, err = inflate(plaintext[:compressedSize], decompressedSize)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// cursor is a bounds-checked forward reader over the raw file bytes.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) remaining() int { return len(c.data) - c.off }

func (c *cursor) uint32(section string) (uint32, error) {
	if c.remaining() < 4 {
		return 0, &FormatError{Section: section, Err: &TruncatedError{Section: section, Need: 4, Have: c.remaining()}}
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) bytes(section string, n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, &FormatError{Section: section, Err: &TruncatedError{Section: section, Need: n, Have: c.remaining()}}
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// sizedBlock reads a 4-byte length prefix followed by that many bytes.
func (c *cursor) sizedBlock(section string) ([]byte, error) {
	size, err := c.uint32(section)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, &FormatError{Section: section, Err: ErrZeroMetadataBlock}
	}
	return c.bytes(section, int(size))
}
