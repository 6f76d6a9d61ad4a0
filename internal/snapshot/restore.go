package snapshot

import (
	"fmt"
	"io"

	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/wire"
)

// chunkSize is the read granularity the import loop drives the decoder
// with, per the streaming-import contract.
const chunkSize = 4096

// Import reads a framed DBVAL* END record stream from r and returns the
// reconstructed keyspace. Records must be DBVAL until a terminating END
// record; a missing terminator, an unexpected record type, or a decode
// error aborts with a diagnostic. Reads the same shared codec discipline
// as the wire protocol: a fresh decoder, chain-seeded at SeedCRC.
func Import(r io.Reader) (map[string]*keyspace.Value, error) {
	dec := wire.NewDecoder()
	buf := &wire.Buffer{}
	chunk := make([]byte, chunkSize)

	out := make(map[string]*keyspace.Value)
	ended := false

	for !ended {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			for {
				msg, derr := dec.Decode(buf)
				if derr != nil {
					return nil, fmt.Errorf("import: decode: %w", derr)
				}
				if msg == nil {
					break
				}
				switch msg.Type {
				case wire.MsgDBVal:
					if msg.DBVal == nil {
						return nil, fmt.Errorf("import: DBVAL record missing payload")
					}
					out[string(msg.DBVal.Key)] = valueFromDBVal(msg.DBVal)
				case wire.MsgEnd:
					ended = true
				default:
					return nil, fmt.Errorf("import: unexpected record type %d", msg.Type)
				}
				if ended {
					break
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("import: read: %w", err)
		}
	}

	if !ended {
		return nil, fmt.Errorf("import: missing END terminator")
	}
	return out, nil
}

func valueFromDBVal(dbv *wire.DBVal) *keyspace.Value {
	switch dbv.Type {
	case wire.AtomString:
		return keyspace.ValueFromString(dbv.Str)
	case wire.AtomList:
		return keyspace.ValueFromList(dbv.Elements)
	case wire.AtomSet:
		return keyspace.ValueFromSet(dbv.Elements)
	default:
		return keyspace.ValueFromString(nil)
	}
}
