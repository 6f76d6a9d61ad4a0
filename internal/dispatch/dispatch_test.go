package dispatch

import (
	"testing"

	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestHandleBasicBatch(t *testing.T) {
	svc := New(keyspace.New())

	msg := &wire.Message{
		Type: wire.MsgReq,
		Req: &wire.ReqMsg{Ops: []wire.Op{
			{Type: wire.OpStrSet, Set: &wire.SetOp{Key: []byte("foo"), Value: []byte("bar")}},
			{Type: wire.OpStrGet, Get: &wire.GetOp{Key: []byte("foo")}},
		}},
	}

	resp := svc.Handle(msg)
	require.Equal(t, wire.MsgResp, resp.Type)
	require.True(t, resp.Resp.OK)
	require.Len(t, resp.Resp.Results, 2)
	require.True(t, resp.Resp.Results[0].OK)
	require.True(t, resp.Resp.Results[1].OK)
	require.Equal(t, []byte("bar"), resp.Resp.Results[1].Get.Value)
}

func TestHandleNonReqMessageIsTopLevelFailure(t *testing.T) {
	svc := New(keyspace.New())
	resp := svc.Handle(&wire.Message{Type: wire.MsgEnd})
	require.Equal(t, wire.MsgResp, resp.Type)
	require.False(t, resp.Resp.OK)
	require.EqualValues(t, -400, resp.Resp.ErrCode)
}

func TestUnknownOpTypeIsInvalidOp(t *testing.T) {
	svc := New(keyspace.New())
	msg := &wire.Message{
		Type: wire.MsgReq,
		Req:  &wire.ReqMsg{Ops: []wire.Op{{Type: wire.OpUnknown}}},
	}
	resp := svc.Handle(msg)
	require.True(t, resp.Resp.OK) // batch-level ok is unconditional
	require.False(t, resp.Resp.Results[0].OK)
	require.EqualValues(t, -400, resp.Resp.Results[0].ErrCode)
	require.Equal(t, wire.OpUnknown, resp.Resp.Results[0].Type)
}

func TestMissingOptionRecordIsInvalidOpBatchContinues(t *testing.T) {
	svc := New(keyspace.New())
	msg := &wire.Message{
		Type: wire.MsgReq,
		Req: &wire.ReqMsg{Ops: []wire.Op{
			{Type: wire.OpStrGet}, // no Get option record
			{Type: wire.OpSrvDBSize},
		}},
	}
	resp := svc.Handle(msg)
	require.True(t, resp.Resp.OK)
	require.Len(t, resp.Resp.Results, 2)
	require.False(t, resp.Resp.Results[0].OK)
	require.EqualValues(t, -400, resp.Resp.Results[0].ErrCode)
	require.True(t, resp.Resp.Results[1].OK)
}

func TestEmptyBatchSucceedsWithNoResults(t *testing.T) {
	svc := New(keyspace.New())
	msg := &wire.Message{Type: wire.MsgReq, Req: &wire.ReqMsg{}}
	resp := svc.Handle(msg)
	require.True(t, resp.Resp.OK)
	require.Empty(t, resp.Resp.Results)
}

// fakeSnapshotter stands in for internal/snapshot.Manager: a real Manager
// spawns a child OS process, which has no place in a dispatch-routing test.
// It only needs to prove dispatch doesn't deadlock calling into db.Snapshot
// while already holding db's lock for the batch.
type fakeSnapshotter struct{ calls int }

func (f *fakeSnapshotter) BGSave(db *keyspace.DB) wire.OpResult {
	f.calls++
	db.Snapshot() // exercises the same lock-reentrancy path as the real Manager
	return wire.OpResult{OK: true, Type: wire.OpSrvBGSave}
}

func TestHandleBGSaveDoesNotDeadlock(t *testing.T) {
	snap := &fakeSnapshotter{}
	svc := New(keyspace.New())
	svc.Snapshotter = snap

	msg := &wire.Message{
		Type: wire.MsgReq,
		Req: &wire.ReqMsg{Ops: []wire.Op{
			{Type: wire.OpStrSet, Set: &wire.SetOp{Key: []byte("k"), Value: []byte("v")}},
			{Type: wire.OpSrvBGSave},
		}},
	}

	resp := svc.Handle(msg)
	require.Equal(t, wire.MsgResp, resp.Type)
	require.True(t, resp.Resp.OK)
	require.Len(t, resp.Resp.Results, 2)
	require.True(t, resp.Resp.Results[0].OK)
	require.True(t, resp.Resp.Results[1].OK)
	require.Equal(t, wire.OpSrvBGSave, resp.Resp.Results[1].Type)
	require.Equal(t, 1, snap.calls)
}

func TestBatchAtomicityUnderConcurrentHandles(t *testing.T) {
	svc := New(keyspace.New())
	done := make(chan struct{})

	batch := func(val string) *wire.Message {
		return &wire.Message{
			Type: wire.MsgReq,
			Req: &wire.ReqMsg{Ops: []wire.Op{
				{Type: wire.OpStrSet, Set: &wire.SetOp{Key: []byte("k"), Value: []byte(val)}},
				{Type: wire.OpStrGet, Get: &wire.GetOp{Key: []byte("k")}},
			}},
		}
	}

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			resp := svc.Handle(batch("a"))
			if got := string(resp.Resp.Results[1].Get.Value); got != "a" {
				t.Errorf("batch a read %q between its own set and get", got)
			}
		}
	}()
	for i := 0; i < 100; i++ {
		resp := svc.Handle(batch("b"))
		require.Equal(t, []byte("b"), resp.Resp.Results[1].Get.Value)
	}
	<-done
}
