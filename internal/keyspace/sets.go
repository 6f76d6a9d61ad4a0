package keyspace

import "github.com/memds/memds/internal/wire"

// addDel backs SET_ADD and SET_DEL, mirroring the reference
// implementation's single add_del helper keyed on op.
func (db *DB) addDel(op wire.OpType, req *wire.KeyedListOp) wire.OpResult {
	key := string(req.Key)

	if op == wire.OpSetAdd {
		v, ok := db.m[key]
		if !ok {
			v = newSet()
			db.m[key] = v
		} else if v.Kind != KindSet {
			return wire.ResultErr(-400, "not a set")
		}

		var added uint64
		for _, el := range req.Elements {
			k := string(el)
			if _, exists := v.Set[k]; !exists {
				v.Set[k] = struct{}{}
				added++
			}
		}
		return wire.OpResult{OK: true, Type: wire.OpSetAdd, Count: &wire.CountRes{N: added}}
	}

	v, ok := db.m[key]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindSet {
		return wire.ResultErr(-400, "not a set")
	}

	var removed uint64
	for _, el := range req.Elements {
		k := string(el)
		if _, exists := v.Set[k]; exists {
			delete(v.Set, k)
			removed++
		}
	}
	return wire.OpResult{OK: true, Type: wire.OpSetDel, Count: &wire.CountRes{N: removed}}
}

// Add backs SET_ADD.
func (db *DB) Add(req *wire.KeyedListOp) wire.OpResult { return db.addDel(wire.OpSetAdd, req) }

// Del backs SET_DEL.
func (db *DB) Del(req *wire.KeyedListOp) wire.OpResult { return db.addDel(wire.OpSetDel, req) }

// IsMember backs SET_ISMEMBER: the count of requested elements that are
// members of the set.
func (db *DB) IsMember(req *wire.KeyedListOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindSet {
		return wire.ResultErr(-400, "not a set")
	}

	var n uint64
	for _, el := range req.Elements {
		if _, exists := v.Set[string(el)]; exists {
			n++
		}
	}
	return wire.OpResult{OK: true, Type: wire.OpSetIsMember, Count: &wire.CountRes{N: n}}
}

// Members backs SET_MEMBERS: all members in unspecified order.
func (db *DB) Members(req *wire.KeyOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindSet {
		return wire.ResultErr(-400, "not a set")
	}

	elems := make([][]byte, 0, len(v.Set))
	for m := range v.Set {
		elems = append(elems, []byte(m))
	}
	return wire.OpResult{OK: true, Type: wire.OpSetMembers, List: &wire.ListRes{Elements: elems}}
}

// SetInfo backs SET_INFO: cardinality.
func (db *DB) SetInfo(req *wire.KeyOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindSet {
		return wire.ResultErr(-400, "not a set")
	}

	return wire.OpResult{OK: true, Type: wire.OpSetInfo, SetInfo: &wire.SetInfoRes{Length: uint64(len(v.Set))}}
}

// Move backs SET_MOVE: if member is in src, remove it from src and insert
// into dst (creating dst as an empty set if missing), returning 1; else 0.
// A missing src is just an empty set here, not a not-found error: the
// source contract only ever returns 1 or 0, so a missing src returns 0 same
// as a present src that doesn't contain member.
func (db *DB) Move(req *wire.SetMoveOp) wire.OpResult {
	srcKey := string(req.Src)
	src, ok := db.m[srcKey]
	if !ok {
		return wire.OpResult{OK: true, Type: wire.OpSetMove, Count: &wire.CountRes{N: 0}}
	}
	if src.Kind != KindSet {
		return wire.ResultErr(-400, "not a set")
	}

	member := string(req.Member)
	if _, present := src.Set[member]; !present {
		return wire.OpResult{OK: true, Type: wire.OpSetMove, Count: &wire.CountRes{N: 0}}
	}

	dstKey := string(req.Dst)
	dst, ok := db.m[dstKey]
	if !ok {
		dst = newSet()
		db.m[dstKey] = dst
	} else if dst.Kind != KindSet {
		return wire.ResultErr(-400, "not a set")
	}

	delete(src.Set, member)
	dst.Set[member] = struct{}{}

	return wire.OpResult{OK: true, Type: wire.OpSetMove, Count: &wire.CountRes{N: 1}}
}

// setOf returns the member set for key, treating a missing key or a
// non-set value as empty (spec'd behavior for set-algebra inputs).
func (db *DB) setOf(key []byte) map[string]struct{} {
	v, ok := db.m[string(key)]
	if !ok || v.Kind != KindSet {
		return nil
	}
	return v.Set
}

// setAlgebra backs SET_DIFF / SET_UNION / SET_INTERSECT. The first key is
// the seed for difference; subsequent keys missing or non-set are treated
// as empty. With a non-empty StoreKey the result is stored there
// (replacing any prior value) and the count returned; otherwise the
// members are returned directly.
func (db *DB) setAlgebra(op wire.OpType, req *wire.CmpStorOp) wire.OpResult {
	var result map[string]struct{}

	switch op {
	case wire.OpSetDiff:
		if len(req.Keys) > 0 {
			seed := db.setOf(req.Keys[0])
			result = make(map[string]struct{}, len(seed))
			for m := range seed {
				result[m] = struct{}{}
			}
			for _, k := range req.Keys[1:] {
				for m := range db.setOf(k) {
					delete(result, m)
				}
			}
		} else {
			result = make(map[string]struct{})
		}

	case wire.OpSetUnion:
		result = make(map[string]struct{})
		for _, k := range req.Keys {
			for m := range db.setOf(k) {
				result[m] = struct{}{}
			}
		}

	case wire.OpSetIntersect:
		if len(req.Keys) == 0 {
			result = make(map[string]struct{})
			break
		}
		result = make(map[string]struct{})
		seed := db.setOf(req.Keys[0])
		for m := range seed {
			inAll := true
			for _, k := range req.Keys[1:] {
				if _, ok := db.setOf(k)[m]; !ok {
					inAll = false
					break
				}
			}
			if inAll {
				result[m] = struct{}{}
			}
		}
	}

	if len(req.StoreKey) > 0 {
		nv := &Value{Kind: KindSet, Set: result}
		db.m[string(req.StoreKey)] = nv
		return wire.OpResult{OK: true, Type: op, Count: &wire.CountRes{N: uint64(len(result))}}
	}

	elems := make([][]byte, 0, len(result))
	for m := range result {
		elems = append(elems, []byte(m))
	}
	return wire.OpResult{OK: true, Type: op, List: &wire.ListRes{Elements: elems}}
}

// Diff backs SET_DIFF.
func (db *DB) Diff(req *wire.CmpStorOp) wire.OpResult { return db.setAlgebra(wire.OpSetDiff, req) }

// Union backs SET_UNION.
func (db *DB) Union(req *wire.CmpStorOp) wire.OpResult { return db.setAlgebra(wire.OpSetUnion, req) }

// Intersect backs SET_INTERSECT.
func (db *DB) Intersect(req *wire.CmpStorOp) wire.OpResult {
	return db.setAlgebra(wire.OpSetIntersect, req)
}
