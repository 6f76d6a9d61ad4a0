package wire

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Magic is the leading frame byte, ASCII 'M'.
	Magic byte = 0x4D

	headerSize  = 4 // magic(1) + length(3)
	crcSize     = 4
	prefixSize  = headerSize + crcSize
	maxPayload  = 1<<24 - 1 // 3-byte length field
	lengthMask  = 0x00ffffff
)

// SeedCRC is the initial previous-CRC value each direction's chain starts
// from. The wire protocol and the snapshot file share this discipline.
const SeedCRC uint32 = 0xDEADBEEF

type decodeState int

const (
	stateHead decodeState = iota
	stateData
)

// Decoder turns a byte stream into a sequence of Messages. It is a small
// state machine (Head / Data(n)): it consumes nothing from buf while the
// bytes its current state needs (the 8-byte magic+length+CRC prefix, then
// the payload) are not all there yet, and it maintains its own
// chained-CRC state across the life of one direction of one connection (or
// one snapshot file).
type Decoder struct {
	state   decodeState
	pending int
	hdr     [prefixSize]byte
	prevCRC uint32
}

// NewDecoder returns a Decoder with its CRC chain seeded at SeedCRC.
func NewDecoder() *Decoder {
	return &Decoder{prevCRC: SeedCRC}
}

// Decode attempts to pull one Message out of buf. It returns (nil, nil)
// when more bytes are needed. The 8-byte prefix (header+crc) is consumed
// as soon as it is complete, the payload only once all of it is in buf.
func (d *Decoder) Decode(buf *Buffer) (*Message, error) {
	for {
		switch d.state {
		case stateHead:
			if buf.Len() < prefixSize {
				return nil, nil
			}
			copy(d.hdr[:], buf.Peek(prefixSize))

			if d.hdr[0] != Magic {
				return nil, ErrInvalidFrame
			}
			length := int(d.hdr[1])<<16 | int(d.hdr[2])<<8 | int(d.hdr[3])

			buf.Advance(prefixSize)
			d.pending = length
			d.state = stateData

		case stateData:
			if buf.Len() < d.pending {
				return nil, nil
			}
			payload := buf.Take(d.pending)

			gotCRC := binary.BigEndian.Uint32(d.hdr[headerSize:prefixSize])
			wantCRC := d.chainedCRC(d.hdr[:headerSize], payload)
			if gotCRC != wantCRC {
				d.state = stateHead
				return nil, ErrInvalidChecksum
			}
			d.prevCRC = wantCRC
			d.state = stateHead

			var msg Message
			if err := msgpack.Unmarshal(payload, &msg); err != nil {
				return nil, ErrProtobufDecode
			}
			return &msg, nil
		}
	}
}

func (d *Decoder) chainedCRC(header, payload []byte) uint32 {
	var prev [4]byte
	binary.BigEndian.PutUint32(prev[:], d.prevCRC)

	crc := crc32.NewIEEE()
	crc.Write(prev[:])
	crc.Write(header)
	crc.Write(payload)
	return crc.Sum32()
}

// Encoder turns Messages into framed bytes, maintaining its own
// chained-CRC state independent of any Decoder (each direction of a
// connection, or a snapshot writer, owns exactly one Encoder).
type Encoder struct {
	prevCRC uint32
}

// NewEncoder returns an Encoder with its CRC chain seeded at SeedCRC.
func NewEncoder() *Encoder {
	return &Encoder{prevCRC: SeedCRC}
}

// Encode appends one framed message to dst and returns the result.
func (e *Encoder) Encode(dst []byte, msg *Message) ([]byte, error) {
	payload, err := msgpack.Marshal(msg)
	if err != nil {
		return nil, ErrInvalidFrame
	}
	if len(payload) > maxPayload {
		return nil, ErrInvalidFrame
	}

	var header [headerSize]byte
	header[0] = Magic
	length := uint32(len(payload)) & lengthMask
	header[1] = byte(length >> 16)
	header[2] = byte(length >> 8)
	header[3] = byte(length)

	var prev [4]byte
	binary.BigEndian.PutUint32(prev[:], e.prevCRC)

	crc := crc32.NewIEEE()
	crc.Write(prev[:])
	crc.Write(header[:])
	crc.Write(payload)
	sum := crc.Sum32()
	e.prevCRC = sum

	dst = append(dst, header[:]...)
	var crcBytes [4]byte
	binary.BigEndian.PutUint32(crcBytes[:], sum)
	dst = append(dst, crcBytes[:]...)
	dst = append(dst, payload...)
	return dst, nil
}
