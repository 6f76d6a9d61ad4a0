package memdsclient

import "github.com/memds/memds/internal/wire"

// Builders below mirror spec §4.2's operations one-to-one with the
// obvious argument mapping; each returns a ready-to-batch wire.Op.

func Get(key []byte) wire.Op {
	return wire.Op{Type: wire.OpStrGet, Get: &wire.GetOp{Key: key}}
}

func StrLen(key []byte) wire.Op {
	return wire.Op{Type: wire.OpStrLen, Get: &wire.GetOp{Key: key, WantLength: true}}
}

func GetRange(key []byte, start, end int64) wire.Op {
	return wire.Op{Type: wire.OpStrGetRange, Get: &wire.GetOp{Key: key, RangeStart: start, RangeEnd: end}}
}

func Set(key, value []byte, createExcl, returnOld bool) wire.Op {
	return wire.Op{Type: wire.OpStrSet, Set: &wire.SetOp{Key: key, Value: value, CreateExcl: createExcl, ReturnOld: returnOld}}
}

func Append(key, suffix []byte, returnOld bool) wire.Op {
	return wire.Op{Type: wire.OpStrAppend, Set: &wire.SetOp{Key: key, Value: suffix, ReturnOld: returnOld}}
}

func Incr(key []byte) wire.Op {
	return wire.Op{Type: wire.OpStrIncr, Num: &wire.NumOp{Key: key}}
}

func Decr(key []byte) wire.Op {
	return wire.Op{Type: wire.OpStrDecr, Num: &wire.NumOp{Key: key}}
}

func IncrBy(key []byte, n int64) wire.Op {
	return wire.Op{Type: wire.OpStrIncrBy, Num: &wire.NumOp{Key: key, N: n, HasN: true}}
}

func DecrBy(key []byte, n int64) wire.Op {
	return wire.Op{Type: wire.OpStrDecrBy, Num: &wire.NumOp{Key: key, N: n, HasN: true}}
}

func Push(key []byte, elements [][]byte, atHead, ifExists bool) wire.Op {
	return wire.Op{Type: wire.OpListPush, LPush: &wire.LPushOp{Key: key, Elements: elements, AtHead: atHead, IfExists: ifExists}}
}

func Pop(key []byte, atHead bool) wire.Op {
	return wire.Op{Type: wire.OpListPop, LPop: &wire.LPopOp{Key: key, AtHead: atHead}}
}

func Index(key []byte, idx int64) wire.Op {
	return wire.Op{Type: wire.OpListIndex, LIndex: &wire.LIndexOp{Key: key, Index: idx}}
}

func ListInfo(key []byte) wire.Op {
	return wire.Op{Type: wire.OpListInfo, Key: &wire.KeyOp{Key: key}}
}

func SetAdd(key []byte, elements [][]byte) wire.Op {
	return wire.Op{Type: wire.OpSetAdd, KeyedList: &wire.KeyedListOp{Key: key, Elements: elements}}
}

func SetDel(key []byte, elements [][]byte) wire.Op {
	return wire.Op{Type: wire.OpSetDel, KeyedList: &wire.KeyedListOp{Key: key, Elements: elements}}
}

func SetIsMember(key []byte, elements [][]byte) wire.Op {
	return wire.Op{Type: wire.OpSetIsMember, KeyedList: &wire.KeyedListOp{Key: key, Elements: elements}}
}

func SetMembers(key []byte) wire.Op {
	return wire.Op{Type: wire.OpSetMembers, Key: &wire.KeyOp{Key: key}}
}

func SetInfo(key []byte) wire.Op {
	return wire.Op{Type: wire.OpSetInfo, Key: &wire.KeyOp{Key: key}}
}

func SetMove(src, dst, member []byte) wire.Op {
	return wire.Op{Type: wire.OpSetMove, SetMove: &wire.SetMoveOp{Src: src, Dst: dst, Member: member}}
}

func SetDiff(keys [][]byte, storeKey []byte) wire.Op {
	return wire.Op{Type: wire.OpSetDiff, CmpStor: &wire.CmpStorOp{Keys: keys, StoreKey: storeKey}}
}

func SetUnion(keys [][]byte, storeKey []byte) wire.Op {
	return wire.Op{Type: wire.OpSetUnion, CmpStor: &wire.CmpStorOp{Keys: keys, StoreKey: storeKey}}
}

func SetIntersect(keys [][]byte, storeKey []byte) wire.Op {
	return wire.Op{Type: wire.OpSetIntersect, CmpStor: &wire.CmpStorOp{Keys: keys, StoreKey: storeKey}}
}

func KeysDel(keys [][]byte) wire.Op {
	return wire.Op{Type: wire.OpKeysDel, KeyList: &wire.KeyListOp{Keys: keys}}
}

func KeysExist(keys [][]byte) wire.Op {
	return wire.Op{Type: wire.OpKeysExists, KeyList: &wire.KeyListOp{Keys: keys}}
}

func Rename(oldKey, newKey []byte, createExcl bool) wire.Op {
	return wire.Op{Type: wire.OpKeysRename, Rename: &wire.RenameOp{OldKey: oldKey, NewKey: newKey, CreateExcl: createExcl}}
}

func Type(key []byte) wire.Op {
	return wire.Op{Type: wire.OpKeysType, Key: &wire.KeyOp{Key: key}}
}

func Dump(key []byte) wire.Op {
	return wire.Op{Type: wire.OpKeyDump, Key: &wire.KeyOp{Key: key}}
}

func Restore(value, key []byte) wire.Op {
	return wire.Op{Type: wire.OpKeyRestore, Set: &wire.SetOp{Key: key, Value: value}}
}

func DBSize() wire.Op { return wire.Op{Type: wire.OpSrvDBSize} }

func FlushDB() wire.Op { return wire.Op{Type: wire.OpSrvFlushDB} }

func FlushAll() wire.Op { return wire.Op{Type: wire.OpSrvFlushAll} }

func Time() wire.Op { return wire.Op{Type: wire.OpSrvTime} }

func BGSave() wire.Op { return wire.Op{Type: wire.OpSrvBGSave} }
