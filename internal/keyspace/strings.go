package keyspace

import (
	"strconv"

	"github.com/memds/memds/internal/wire"
)

// Get backs STR_GET / STR_GETRANGE / STR_STRLEN. Caller must hold db's
// lock for the duration of the batch.
func (db *DB) Get(req *wire.GetOp, op wire.OpType) wire.OpResult {
	v, ok := db.m[string(req.Key)]
	if !ok {
		return wire.ResultErr(-404, "Not Found")
	}
	if v.Kind != KindString {
		return wire.ResultErr(-400, "not a string")
	}

	res := &wire.GetRes{}
	switch {
	case req.WantLength:
		res.HasLength = true
		res.ValueLength = uint64(len(v.Str))
	case op == wire.OpStrGetRange:
		lo, hi := clampRange(req.RangeStart, req.RangeEnd, len(v.Str))
		res.Value = append([]byte(nil), v.Str[lo:hi]...)
	default:
		res.Value = append([]byte(nil), v.Str...)
	}

	return wire.OpResult{OK: true, Type: op, Get: res}
}

// Set backs STR_SET. Caller must hold db's lock.
func (db *DB) Set(req *wire.SetOp) wire.OpResult {
	key := string(req.Key)
	if req.CreateExcl {
		if _, exists := db.m[key]; exists {
			return wire.ResultErr(-412, "Precondition failed: key exists")
		}
	}

	prev := db.m[key]
	db.m[key] = newString(req.Value)

	res := &wire.SetRes{}
	if req.ReturnOld && prev != nil && prev.Kind == KindString {
		res.HasOldValue = true
		res.OldValue = append([]byte(nil), prev.Str...)
	}

	return wire.OpResult{OK: true, Type: wire.OpStrSet, Set: res}
}

// Append backs STR_APPEND. Caller must hold db's lock.
func (db *DB) Append(req *wire.SetOp) wire.OpResult {
	key := string(req.Key)
	existing := db.m[key]

	var value []byte
	if existing != nil {
		if existing.Kind != KindString {
			return wire.ResultErr(-400, "not a string")
		}
		value = append([]byte(nil), existing.Str...)
	}

	res := &wire.SetRes{}
	if req.ReturnOld {
		res.HasOldValue = true
		res.OldValue = append([]byte(nil), value...)
	}

	value = append(value, req.Value...)
	db.m[key] = newString(value)

	return wire.OpResult{OK: true, Type: wire.OpStrAppend, Set: res}
}

// IncrDecr backs STR_INCR / STR_DECR / STR_INCRBY / STR_DECRBY. Caller
// must hold db's lock.
func (db *DB) IncrDecr(op wire.OpType, req *wire.NumOp) wire.OpResult {
	key := string(req.Key)

	var oldVal int64
	if existing, ok := db.m[key]; ok {
		if existing.Kind != KindString {
			return wire.ResultErr(-400, "value not a string")
		}
		parsed, err := strconv.ParseInt(string(existing.Str), 10, 64)
		if err != nil {
			return wire.ResultErr(-400, "value not i64")
		}
		oldVal = parsed
	}

	isIncr := op == wire.OpStrIncr || op == wire.OpStrIncrBy
	n := int64(1)
	if op == wire.OpStrIncrBy || op == wire.OpStrDecrBy {
		n = req.N
	}

	var newVal int64
	if isIncr {
		newVal = oldVal + n
	} else {
		newVal = oldVal - n
	}

	db.m[key] = newString([]byte(strconv.FormatInt(newVal, 10)))

	return wire.OpResult{OK: true, Type: op, Num: &wire.NumRes{OldValue: oldVal}}
}
