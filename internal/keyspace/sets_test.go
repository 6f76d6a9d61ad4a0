package keyspace

import (
	"sort"
	"testing"

	"github.com/memds/memds/internal/wire"
	"github.com/stretchr/testify/require"
)

func bsSorted(elems [][]byte) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = string(e)
	}
	sort.Strings(out)
	return out
}

func TestSetAddDedupesAndCountsNewOnly(t *testing.T) {
	db := New()
	res := db.Add(&wire.KeyedListOp{Key: []byte("a_set"), Elements: [][]byte{[]byte("one"), []byte("two"), []byte("two")}})
	require.True(t, res.OK)
	require.EqualValues(t, 2, res.Count.N)

	info := db.SetInfo(&wire.KeyOp{Key: []byte("a_set")})
	require.EqualValues(t, 2, info.SetInfo.Length)
}

func TestSetDelMissingKeyNotFound(t *testing.T) {
	db := New()
	res := db.Del(&wire.KeyedListOp{Key: []byte("nope"), Elements: [][]byte{[]byte("x")}})
	require.False(t, res.OK)
	require.EqualValues(t, -404, res.ErrCode)
}

func TestSetMoveScenarios(t *testing.T) {
	db := New()
	db.Add(&wire.KeyedListOp{Key: []byte("src"), Elements: [][]byte{[]byte("m")}})

	res := db.Move(&wire.SetMoveOp{Src: []byte("src"), Dst: []byte("dst"), Member: []byte("m")})
	require.True(t, res.OK)
	require.EqualValues(t, 1, res.Count.N)

	res = db.Move(&wire.SetMoveOp{Src: []byte("src"), Dst: []byte("dst"), Member: []byte("m")})
	require.True(t, res.OK)
	require.EqualValues(t, 0, res.Count.N)

	info := db.SetInfo(&wire.KeyOp{Key: []byte("dst")})
	require.EqualValues(t, 1, info.SetInfo.Length)
}

func TestSetDiffUnionIntersectScenario(t *testing.T) {
	db := New()
	db.Add(&wire.KeyedListOp{Key: []byte("set1"), Elements: [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}})
	db.Add(&wire.KeyedListOp{Key: []byte("set2"), Elements: [][]byte{[]byte("c")}})
	db.Add(&wire.KeyedListOp{Key: []byte("set3"), Elements: [][]byte{[]byte("a"), []byte("c"), []byte("e")}})

	keys := [][]byte{[]byte("set1"), []byte("set2"), []byte("set3")}

	diff := db.Diff(&wire.CmpStorOp{Keys: keys})
	require.Equal(t, []string{"b", "d"}, bsSorted(diff.List.Elements))

	union := db.Union(&wire.CmpStorOp{Keys: keys})
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, bsSorted(union.List.Elements))
}

func TestSetUnionCommutative(t *testing.T) {
	db := New()
	db.Add(&wire.KeyedListOp{Key: []byte("A"), Elements: [][]byte{[]byte("1"), []byte("2")}})
	db.Add(&wire.KeyedListOp{Key: []byte("B"), Elements: [][]byte{[]byte("2"), []byte("3")}})

	ab := db.Union(&wire.CmpStorOp{Keys: [][]byte{[]byte("A"), []byte("B")}})
	ba := db.Union(&wire.CmpStorOp{Keys: [][]byte{[]byte("B"), []byte("A")}})
	require.Equal(t, bsSorted(ab.List.Elements), bsSorted(ba.List.Elements))
}

func TestSetIntersectSubsetOfInputs(t *testing.T) {
	db := New()
	db.Add(&wire.KeyedListOp{Key: []byte("A"), Elements: [][]byte{[]byte("1"), []byte("2"), []byte("3")}})
	db.Add(&wire.KeyedListOp{Key: []byte("B"), Elements: [][]byte{[]byte("2"), []byte("3"), []byte("4")}})

	res := db.Intersect(&wire.CmpStorOp{Keys: [][]byte{[]byte("A"), []byte("B")}})
	require.Equal(t, []string{"2", "3"}, bsSorted(res.List.Elements))
}

func TestSetAlgebraMissingKeyTreatedEmpty(t *testing.T) {
	db := New()
	db.Add(&wire.KeyedListOp{Key: []byte("A"), Elements: [][]byte{[]byte("x")}})

	res := db.Union(&wire.CmpStorOp{Keys: [][]byte{[]byte("A"), []byte("ghost")}})
	require.Equal(t, []string{"x"}, bsSorted(res.List.Elements))
}

func TestSetAlgebraWithStoreKeyReturnsCount(t *testing.T) {
	db := New()
	db.Add(&wire.KeyedListOp{Key: []byte("A"), Elements: [][]byte{[]byte("x"), []byte("y")}})
	db.Add(&wire.KeyedListOp{Key: []byte("B"), Elements: [][]byte{[]byte("y")}})

	res := db.Diff(&wire.CmpStorOp{Keys: [][]byte{[]byte("A"), []byte("B")}, StoreKey: []byte("out")})
	require.True(t, res.OK)
	require.EqualValues(t, 1, res.Count.N)

	info := db.SetInfo(&wire.KeyOp{Key: []byte("out")})
	require.EqualValues(t, 1, info.SetInfo.Length)
}
