// Package memdsclient provides a thin TCP client over the framed wire
// protocol: request builders plus a Conn that dials, sends one batch, and
// reads back its response. Used by both the test suite and the CLI.
package memdsclient

import (
	"fmt"
	"net"
	"time"

	"github.com/memds/memds/internal/wire"
)

// Conn wraps a dialed connection with its own encoder/decoder chain
// state, since the wire codec is stateful per direction.
type Conn struct {
	nc  net.Conn
	enc *wire.Encoder
	dec *wire.Decoder
	buf *wire.Buffer
}

// Dial connects to addr (host:port) with the given timeout.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	nc, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("memdsclient: dial %s: %w", addr, err)
	}
	return &Conn{
		nc:  nc,
		enc: wire.NewEncoder(),
		dec: wire.NewDecoder(),
		buf: &wire.Buffer{},
	}, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.nc.Close() }

// Do sends a batch of ops and returns the server's per-op results.
func (c *Conn) Do(ops ...wire.Op) ([]wire.OpResult, error) {
	raw, err := c.enc.Encode(nil, &wire.Message{Type: wire.MsgReq, Req: &wire.ReqMsg{Ops: ops}})
	if err != nil {
		return nil, fmt.Errorf("memdsclient: encode: %w", err)
	}
	if _, err := c.nc.Write(raw); err != nil {
		return nil, fmt.Errorf("memdsclient: write: %w", err)
	}

	chunk := make([]byte, 4096)
	for {
		msg, err := c.dec.Decode(c.buf)
		if err != nil {
			return nil, fmt.Errorf("memdsclient: decode: %w", err)
		}
		if msg != nil {
			if msg.Type != wire.MsgResp || msg.Resp == nil {
				return nil, fmt.Errorf("memdsclient: unexpected response message type %d", msg.Type)
			}
			if !msg.Resp.OK {
				return nil, fmt.Errorf("memdsclient: request rejected: %s", msg.Resp.ErrMessage)
			}
			return msg.Resp.Results, nil
		}

		n, err := c.nc.Read(chunk)
		if err != nil {
			return nil, fmt.Errorf("memdsclient: read: %w", err)
		}
		c.buf.Write(chunk[:n])
	}
}
