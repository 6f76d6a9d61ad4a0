package snapshot

import (
	"bytes"
	"testing"

	"go.uber.org/zap"

	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestEncodeRecordsProducesValidStream(t *testing.T) {
	entries := map[string]*keyspace.Value{
		"a": keyspace.ValueFromString([]byte("1")),
		"b": keyspace.ValueFromList([][]byte{[]byte("x")}),
	}

	raw, err := encodeRecords(entries)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	out, err := Import(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestBGSaveReportsSuccessImmediately(t *testing.T) {
	db := keyspace.New()

	db.Lock()
	db.Set(&wire.SetOp{Key: []byte("k"), Value: []byte("v")})
	db.Unlock()

	m := NewManager(zap.NewNop(), t.TempDir()+"/snap.dat")

	db.Lock()
	res := m.BGSave(db)
	db.Unlock()

	require.True(t, res.OK)
	require.Equal(t, wire.OpSrvBGSave, res.Type)
}
