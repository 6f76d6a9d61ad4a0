package keyspace

import "github.com/memds/memds/internal/wire"

// Push backs LIST_PUSH. Elements are inserted in request order; when
// AtHead, each element becomes the new head in turn, so the last element
// submitted ends up closest to the front. Caller must hold db's lock.
func (db *DB) Push(req *wire.LPushOp) wire.OpResult {
	key := string(req.Key)
	v, ok := db.m[key]
	if !ok {
		if req.IfExists {
			return wire.ResultErr(-404, "Not Found")
		}
		v = newList()
		db.m[key] = v
	} else if v.Kind != KindList {
		return wire.ResultErr(-400, "not a list")
	}

	if req.AtHead {
		for _, el := range req.Elements {
			v.List = append([][]byte{append([]byte(nil), el...)}, v.List...)
		}
	} else {
		for _, el := range req.Elements {
			v.List = append(v.List, append([]byte(nil), el...))
		}
	}

	return wire.OpResult{OK: true, Type: wire.OpListPush, ListInfo: &wire.ListInfoRes{Length: uint64(len(v.List))}}
}

// Pop backs LIST_POP. An empty list yields success with an empty element
// list rather than an error; a missing key is -404.
func (db *DB) Pop(req *wire.LPopOp) wire.OpResult {
	key := string(req.Key)
	v, ok := db.m[key]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindList {
		return wire.ResultErr(-400, "not a list")
	}

	res := &wire.ListRes{}
	if len(v.List) > 0 {
		var elem []byte
		if req.AtHead {
			elem = v.List[0]
			v.List = v.List[1:]
		} else {
			elem = v.List[len(v.List)-1]
			v.List = v.List[:len(v.List)-1]
		}
		res.Elements = [][]byte{elem}
	}

	return wire.OpResult{OK: true, Type: wire.OpListPop, List: res}
}

// Index backs LIST_INDEX: random access by signed index, out-of-range
// yields an empty element list rather than an error.
func (db *DB) Index(req *wire.LIndexOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindList {
		return wire.ResultErr(-400, "not a list")
	}

	res := &wire.ListRes{}
	pos := absIndex(req.Index, len(v.List))
	if pos < len(v.List) {
		res.Elements = [][]byte{append([]byte(nil), v.List[pos]...)}
	}

	return wire.OpResult{OK: true, Type: wire.OpListIndex, List: res}
}

// ListInfo backs LIST_INFO.
func (db *DB) ListInfo(req *wire.KeyOp) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindList {
		return wire.ResultErr(-400, "not a list")
	}

	return wire.OpResult{OK: true, Type: wire.OpListInfo, ListInfo: &wire.ListInfoRes{Length: uint64(len(v.List))}}
}
