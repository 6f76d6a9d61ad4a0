// Package snapshot implements the BGSAVE / import subsystem: the parent
// clones the keyspace under a brief lock and serializes it into the
// framed DBVAL/END record stream, then hands those bytes to a real child
// OS process that owns writing them to disk. The reference implementation
// relies on fork()'s copy-on-write semantics to let the child see a
// consistent keyspace without blocking writers; Go cannot safely fork a
// goroutine-scheduled runtime, so this port takes the brief-lock snapshot
// in the parent instead (sanctioned by the external contract: a file of
// codec-framed DBVAL* END records, chain-seeded at SeedCRC).
package snapshot

import (
	"bytes"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/memds/memds/internal/keyspace"
	"github.com/memds/memds/internal/wire"
)

// reexecFlag is the hidden subcommand the server binary recognizes to act
// as a bgsave child rather than starting the service.
const reexecFlag = "--bgsave-child"

// durationObserver is the one method Manager needs from *metrics.Metrics;
// kept narrow so this package doesn't need to import metrics for its type.
type durationObserver interface {
	Observe(float64)
}

// Manager owns the snapshot file path and collapses concurrent BGSAVE
// requests onto a single in-flight child process.
type Manager struct {
	log      *zap.Logger
	path     string
	sf       singleflight.Group
	duration durationObserver
}

// NewManager returns a Manager that writes snapshots to path, re-exec'ing
// the running binary (via os.Executable) as the child process.
func NewManager(log *zap.Logger, path string) *Manager {
	return &Manager{log: log, path: path}
}

// WithDuration attaches a histogram observer recording child wall-clock
// duration; used by cmd/memds-server to wire metrics.Metrics.BGSaveDuration.
func (m *Manager) WithDuration(d durationObserver) *Manager {
	m.duration = d
	return m
}

// BGSave backs SRV_BGSAVE. It always reports success for the start of the
// snapshot, regardless of eventual child outcome, matching the reference
// implementation's fire-and-forget fork discipline. Caller must hold db's
// lock across the call to BGSave itself, same as any other keyspace
// handler — db.Snapshot does not lock internally. The clone it returns is
// handed off to a goroutine that does the actual (slow) encode+child-process
// write after BGSave has already returned, so the lock is only held for the
// brief in-memory clone, never for any I/O.
func (m *Manager) BGSave(db *keyspace.DB) wire.OpResult {
	entries := db.Snapshot()

	go func() {
		_, _, _ = m.sf.Do(m.path, func() (interface{}, error) {
			return nil, m.writeSnapshot(entries)
		})
	}()

	return wire.OpResult{OK: true, Type: wire.OpSrvBGSave}
}

func (m *Manager) writeSnapshot(entries map[string]*keyspace.Value) error {
	payload, err := encodeRecords(entries)
	if err != nil {
		m.log.Error("bgsave: encode failed", zap.Error(err))
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		m.log.Error("bgsave: resolve executable failed", zap.Error(err))
		return err
	}

	cmd := exec.Command(exe, reexecFlag, m.path)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stderr = os.Stderr
	setChildSysProcAttr(cmd)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		m.log.Error("bgsave: child process failed", zap.String("path", m.path), zap.Error(err))
		return err
	}

	if m.duration != nil {
		m.duration.Observe(time.Since(start).Seconds())
	}
	m.log.Info("bgsave: snapshot written", zap.String("path", m.path), zap.Int("keys", len(entries)))
	return nil
}

// encodeRecords serializes entries into the framed DBVAL* END stream a
// bgsave child (or this process's own RunChild) expects to receive.
func encodeRecords(entries map[string]*keyspace.Value) ([]byte, error) {
	enc := wire.NewEncoder()
	var out []byte
	var err error

	for key, v := range entries {
		dbv := keyspace.ElementDBVal([]byte(key), v)
		out, err = enc.Encode(out, &wire.Message{Type: wire.MsgDBVal, DBVal: dbv})
		if err != nil {
			return nil, err
		}
	}

	out, err = enc.Encode(out, &wire.Message{Type: wire.MsgEnd})
	if err != nil {
		return nil, err
	}
	return out, nil
}
