package keyspace

import (
	"time"

	"github.com/memds/memds/internal/wire"
)

// DBSize backs SRV_DBSIZE.
func (db *DB) DBSize() wire.OpResult {
	return wire.OpResult{OK: true, Type: wire.OpSrvDBSize, Count: &wire.CountRes{N: uint64(len(db.m))}}
}

// Flush backs SRV_FLUSHDB / SRV_FLUSHALL. The design preserves a single
// logical database, so both empty the same keyspace; the op tag carried on
// the result still distinguishes which was requested.
func (db *DB) Flush(op wire.OpType) wire.OpResult {
	db.m = make(map[string]*Value)
	return wire.OpResult{OK: true, Type: op}
}

// Time backs SRV_TIME: wall-clock seconds and nanoseconds since the Unix
// epoch. Does not touch the keyspace and needs no lock, but is dispatched
// alongside the locked handlers for uniformity.
func Time() wire.OpResult {
	now := time.Now()
	return wire.OpResult{
		OK:   true,
		Type: wire.OpSrvTime,
		SrvTime: &wire.TimeRes{
			Secs:     uint64(now.Unix()),
			Nanosecs: uint32(now.Nanosecond()),
		},
	}
}
