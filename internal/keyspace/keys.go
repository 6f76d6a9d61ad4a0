package keyspace

import "github.com/memds/memds/internal/wire"

// DelExist backs KEYS_DEL / KEYS_EXIST: the count of keys matched.
func (db *DB) DelExist(req *wire.KeyListOp, remove bool) wire.OpResult {
	var count uint64
	for _, key := range req.Keys {
		k := string(key)
		if remove {
			if _, ok := db.m[k]; ok {
				delete(db.m, k)
				count++
			}
		} else if _, ok := db.m[k]; ok {
			count++
		}
	}

	op := wire.OpKeysExists
	if remove {
		op = wire.OpKeysDel
	}
	return wire.OpResult{OK: true, Type: op, Count: &wire.CountRes{N: count}}
}

// Rename backs KEYS_RENAME.
func (db *DB) Rename(req *wire.RenameOp) wire.OpResult {
	newKey := string(req.NewKey)
	if req.CreateExcl {
		if _, exists := db.m[newKey]; exists {
			return wire.ResultErr(-412, "Precondition failed: key exists")
		}
	}

	oldKey := string(req.OldKey)
	v, ok := db.m[oldKey]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}

	delete(db.m, oldKey)
	db.m[newKey] = v

	return wire.OpResult{OK: true, Type: wire.OpKeysRename}
}

// Type backs KEYS_TYPE.
func (db *DB) Type(req *wire.KeyOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	return wire.OpResult{OK: true, Type: wire.OpKeysType, Typ: &wire.TypeRes{Type: v.Kind.Atom()}}
}

// ElementDBVal converts a stored Value into a wire.DBVal record, used by
// both KEY_DUMP and the bgsave snapshot writer.
func ElementDBVal(key []byte, v *Value) *wire.DBVal {
	dbv := &wire.DBVal{Key: append([]byte(nil), key...), Type: v.Kind.Atom()}
	switch v.Kind {
	case KindString:
		dbv.Str = append([]byte(nil), v.Str...)
	case KindList:
		dbv.Elements = append([][]byte(nil), v.List...)
	case KindSet:
		for m := range v.Set {
			dbv.Elements = append(dbv.Elements, []byte(m))
		}
	}
	return dbv
}

// Dump backs KEY_DUMP: serializes the key/value into one self-contained
// framed codec message (its own chain, freshly seeded) and returns those
// bytes in GetRes.Value.
func (db *DB) Dump(req *wire.KeyOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}

	msg := &wire.Message{Type: wire.MsgDBVal, DBVal: ElementDBVal(req.Key, v)}
	raw, err := wire.NewEncoder().Encode(nil, msg)
	if err != nil {
		return wire.ResultErr(-500, "dump encode failed")
	}

	return wire.OpResult{OK: true, Type: wire.OpKeyDump, Get: &wire.GetRes{Value: raw}}
}

// Restore backs KEY_RESTORE: parses a framed DBVAL message out of
// req.Value (its own freshly-seeded chain) and stores it under req.Key
// (or the key embedded in the dump when req.Key is empty), replacing any
// existing value there.
func (db *DB) Restore(req *wire.SetOp) wire.OpResult {
	buf := &wire.Buffer{}
	buf.Write(req.Value)

	msg, err := wire.NewDecoder().Decode(buf)
	if err != nil {
		return wire.ResultErr(-400, "Deser failed")
	}
	if msg == nil {
		return wire.ResultErr(-400, "Deser empty")
	}
	if msg.Type != wire.MsgDBVal || msg.DBVal == nil {
		return wire.ResultErr(-400, "not dbv")
	}

	dbv := msg.DBVal
	key := req.Key
	if len(key) == 0 {
		key = dbv.Key
	}

	var v *Value
	switch dbv.Type {
	case wire.AtomString:
		v = newString(dbv.Str)
	case wire.AtomList:
		v = newList()
		v.List = append([][]byte(nil), dbv.Elements...)
	case wire.AtomSet:
		v = newSet()
		for _, el := range dbv.Elements {
			v.Set[string(el)] = struct{}{}
		}
	default:
		v = newString(nil)
	}

	db.m[string(key)] = v

	return wire.OpResult{OK: true, Type: wire.OpKeyRestore}
}
