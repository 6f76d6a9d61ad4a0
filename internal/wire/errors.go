// Package wire implements the framed, self-checksumming wire codec shared by
// the TCP protocol and the on-disk snapshot format.
package wire

import "fmt"

// Error is the closed set of codec-layer failures. Operation-layer failures
// (the -400/-404/-412/-500 codes) are carried on OpResult instead and never
// surface as an Error.
type Error struct {
	kind string
	err  error // set only for errors built by IOError
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("wire: %s: %v", e.kind, e.err)
	}
	return "wire: " + e.kind
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

var (
	// ErrInvalidFrame: the magic byte didn't match, or an encode was asked
	// to frame a payload larger than 2^24-1 bytes.
	ErrInvalidFrame = &Error{kind: "invalid frame"}
	// ErrInvalidChecksum: the chained CRC-32 over a decoded frame didn't
	// match the CRC carried in its header.
	ErrInvalidChecksum = &Error{kind: "invalid checksum"}
	// ErrProtobufDecode: the frame's payload didn't deserialize into the
	// expected Message shape. Named for the original wire format's codegen;
	// this port's payload codec is msgpack, but the error kind name is part
	// of the spec's closed taxonomy and is kept verbatim.
	ErrProtobufDecode = &Error{kind: "protobuf decode"}
)

// IOError wraps an underlying I/O failure encountered while framing.
func IOError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: "io", err: err}
}
