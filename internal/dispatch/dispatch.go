// Package dispatch routes a batch request to the value engine. It holds
// the keyspace's single lock for the whole batch, so operations within one
// request are serialized against each other and observed atomically by
// other batches.
package dispatch

import (
	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/wire"
)

// Service couples a keyspace to whatever triggers a background snapshot;
// Snapshotter is nil in tests that don't exercise BGSAVE.
type Service struct {
	DB          *keyspace.DB
	Snapshotter interface {
		BGSave(db *keyspace.DB) wire.OpResult
	}
}

// New returns a Service wrapping db with no snapshot backend wired in.
func New(db *keyspace.DB) *Service {
	return &Service{DB: db}
}

// Handle processes one top-level message. Anything other than a REQ
// message is answered with a top-level failure, per the closed error
// taxonomy (§7): the batch never even reaches the keyspace lock.
func (s *Service) Handle(msg *wire.Message) *wire.Message {
	if msg == nil || msg.Type != wire.MsgReq || msg.Req == nil {
		return &wire.Message{
			Type: wire.MsgResp,
			Resp: &wire.RespMsg{OK: false, ErrCode: -400, ErrMessage: "Invalid op"},
		}
	}

	s.DB.Lock()
	defer s.DB.Unlock()

	results := make([]wire.OpResult, 0, len(msg.Req.Ops))
	for _, op := range msg.Req.Ops {
		results = append(results, s.dispatchOne(op))
	}

	return &wire.Message{
		Type: wire.MsgResp,
		Resp: &wire.RespMsg{OK: true, Results: results},
	}
}

func invalidOp() wire.OpResult { return wire.ResultErr(-400, "Invalid op") }

// dispatchOne routes a single operation. The caller must hold db's lock.
// Mirrors the reference dispatcher's match table: each op_type requires
// exactly one specific sibling option record; its absence is -400 without
// consulting the keyspace at all. Only that record is checked: any other
// option records set on the same op are ignored, not rejected.
func (s *Service) dispatchOne(op wire.Op) wire.OpResult {
	db := s.DB

	switch op.Type {
	case wire.OpKeyDump:
		if op.Key == nil {
			return invalidOp()
		}
		return db.Dump(op.Key)

	case wire.OpKeyRestore:
		if op.Set == nil {
			return invalidOp()
		}
		return db.Restore(op.Set)

	case wire.OpKeysDel, wire.OpKeysExists:
		if op.KeyList == nil {
			return invalidOp()
		}
		return db.DelExist(op.KeyList, op.Type == wire.OpKeysDel)

	case wire.OpKeysRename:
		if op.Rename == nil {
			return invalidOp()
		}
		return db.Rename(op.Rename)

	case wire.OpKeysType:
		if op.Key == nil {
			return invalidOp()
		}
		return db.Type(op.Key)

	case wire.OpSetAdd, wire.OpSetDel, wire.OpSetIsMember:
		if op.KeyedList == nil {
			return invalidOp()
		}
		switch op.Type {
		case wire.OpSetIsMember:
			return db.IsMember(op.KeyedList)
		case wire.OpSetAdd:
			return db.Add(op.KeyedList)
		default:
			return db.Del(op.KeyedList)
		}

	case wire.OpSetDiff, wire.OpSetUnion, wire.OpSetIntersect:
		if op.CmpStor == nil {
			return invalidOp()
		}
		switch op.Type {
		case wire.OpSetDiff:
			return db.Diff(op.CmpStor)
		case wire.OpSetUnion:
			return db.Union(op.CmpStor)
		default:
			return db.Intersect(op.CmpStor)
		}

	case wire.OpSetInfo, wire.OpSetMembers:
		if op.Key == nil {
			return invalidOp()
		}
		if op.Type == wire.OpSetInfo {
			return db.SetInfo(op.Key)
		}
		return db.Members(op.Key)

	case wire.OpSetMove:
		if op.SetMove == nil {
			return invalidOp()
		}
		return db.Move(op.SetMove)

	case wire.OpSrvBGSave:
		if s.Snapshotter == nil {
			return wire.ResultErr(-500, "bgsave not configured")
		}
		return s.Snapshotter.BGSave(db)

	case wire.OpSrvDBSize:
		return db.DBSize()

	case wire.OpSrvFlushDB, wire.OpSrvFlushAll:
		return db.Flush(op.Type)

	case wire.OpSrvTime:
		return keyspace.Time()

	case wire.OpStrGet, wire.OpStrGetRange, wire.OpStrLen:
		if op.Get == nil {
			return invalidOp()
		}
		return db.Get(op.Get, op.Type)

	case wire.OpStrSet, wire.OpStrAppend:
		if op.Set == nil {
			return invalidOp()
		}
		if op.Type == wire.OpStrSet {
			return db.Set(op.Set)
		}
		return db.Append(op.Set)

	case wire.OpStrDecr, wire.OpStrDecrBy, wire.OpStrIncr, wire.OpStrIncrBy:
		if op.Num == nil {
			return invalidOp()
		}
		return db.IncrDecr(op.Type, op.Num)

	case wire.OpListPush:
		if op.LPush == nil {
			return invalidOp()
		}
		return db.Push(op.LPush)

	case wire.OpListPop:
		if op.LPop == nil {
			return invalidOp()
		}
		return db.Pop(op.LPop)

	case wire.OpListInfo:
		if op.Key == nil {
			return invalidOp()
		}
		return db.ListInfo(op.Key)

	case wire.OpListIndex:
		if op.LIndex == nil {
			return invalidOp()
		}
		return db.Index(op.LIndex)

	default:
		return invalidOp()
	}
}
