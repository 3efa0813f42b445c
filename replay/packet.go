package replay

import (
	"encoding/binary"
	"io"
	"math"
)

// Packet types that carry an entity id (and, for method calls, a method id)
// at the start of the payload.
const (
	PacketTypeEntityProperty uint32 = 0x07
	PacketTypeEntityMethod   uint32 = 0x08
)

// frameHeaderSize covers the length, type and time fields of one frame.
const frameHeaderSize = 12

// Packet is one frame of the decoded packet stream.
type Packet struct {
	Type    uint32
	Time    float32 // seconds since battle start
	Payload []byte
	// TotalLength is the on-disk frame size including the 12-byte header,
	// kept for statistics and diagnostics.
	TotalLength uint32
}

// EntityID returns the entity id carried at payload offset 0 for entity
// property/method packets. ok is false for other types or short payloads.
func (p *Packet) EntityID() (id uint32, ok bool) {
	if (p.Type != PacketTypeEntityProperty && p.Type != PacketTypeEntityMethod) || len(p.Payload) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(p.Payload), true
}

// MethodID returns the sub-identifier carried at payload offset 4. For
// method-call packets this is the method id; for property packets it is the
// property sub-identifier. ok is false for other types or short payloads.
func (p *Packet) MethodID() (id uint32, ok bool) {
	if (p.Type != PacketTypeEntityProperty && p.Type != PacketTypeEntityMethod) || len(p.Payload) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(p.Payload[4:]), true
}

// PacketStream walks the decoded packet bytes as a forward-only sequence of
// frames. It is not safe for concurrent use and cannot be restarted.
type PacketStream struct {
	data []byte
	off  int
}

func NewPacketStream(data []byte) *PacketStream {
	return &PacketStream{data: data}
}

// Next returns the next frame, io.EOF once the cursor sits exactly at the
// end of the buffer, or a framing error otherwise. A framing error does not
// advance the cursor: the corrupt length field makes the next frame boundary
// unknowable, so repeated calls return the same error and callers should
// treat the first one as the end of usable data.
func (s *PacketStream) Next() (*Packet, error) {
	remaining := len(s.data) - s.off
	if remaining == 0 {
		return nil, io.EOF
	}
	if remaining < frameHeaderSize {
		return nil, &FormatError{
			Section: "frame header",
			Err:     &TruncatedError{Section: "frame header", Need: frameHeaderSize, Have: remaining},
		}
	}

	length := binary.LittleEndian.Uint32(s.data[s.off:])
	packetType := binary.LittleEndian.Uint32(s.data[s.off+4:])
	time := math.Float32frombits(binary.LittleEndian.Uint32(s.data[s.off+8:]))

	if uint32(remaining-frameHeaderSize) < length {
		return nil, &FormatError{
			Section: "frame payload",
			Err:     &TruncatedError{Section: "frame payload", Need: int(length), Have: remaining - frameHeaderSize},
		}
	}

	start := s.off + frameHeaderSize
	p := &Packet{
		Type:        packetType,
		Time:        time,
		Payload:     s.data[start : start+int(length)],
		TotalLength: length + frameHeaderSize,
	}
	s.off = start + int(length)
	return p, nil
}
