package snapshot

import (
	"bytes"
	"testing"

	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestImportRoundTrip(t *testing.T) {
	db := keyspace.New()
	db.Set(&wire.SetOp{Key: []byte("foo"), Value: []byte("bar")})
	db.Push(&wire.LPushOp{Key: []byte("lst"), Elements: [][]byte{[]byte("a"), []byte("b")}})
	db.Add(&wire.KeyedListOp{Key: []byte("st"), Elements: [][]byte{[]byte("x")}})

	entries := db.Snapshot()
	raw, err := encodeRecords(entries)
	require.NoError(t, err)

	out, err := Import(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, []byte("bar"), out["foo"].Str)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, out["lst"].List)
	_, isMember := out["st"].Set["x"]
	require.True(t, isMember)
}

func TestImportMissingTerminatorErrors(t *testing.T) {
	enc := wire.NewEncoder()
	dbv := &wire.DBVal{Key: []byte("k"), Type: wire.AtomString, Str: []byte("v")}
	raw, err := enc.Encode(nil, &wire.Message{Type: wire.MsgDBVal, DBVal: dbv})
	require.NoError(t, err)

	_, err = Import(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestImportUnexpectedRecordTypeErrors(t *testing.T) {
	enc := wire.NewEncoder()
	raw, err := enc.Encode(nil, &wire.Message{Type: wire.MsgReq, Req: &wire.ReqMsg{}})
	require.NoError(t, err)

	_, err = Import(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestImportEmptyStreamIsMissingTerminator(t *testing.T) {
	_, err := Import(bytes.NewReader(nil))
	require.Error(t, err)
}
