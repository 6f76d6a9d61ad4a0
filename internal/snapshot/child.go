package snapshot

import (
	"fmt"
	"io"
	"os"
)

// ReexecFlag reports the hidden subcommand name, for cmd/memds-server's
// argv dispatch to recognize before kong ever sees the arguments.
const ReexecFlag = reexecFlag

// RunChild is the bgsave child's entire job: read the already-encoded
// record stream from stdin and persist it byte-for-byte to path, fsync,
// and return. Any I/O failure is reported to the caller, which prints a
// diagnostic to stderr and exits 1; success exits 0. The parent has
// already done the keyspace read and codec encoding under its brief lock,
// so the child never touches the keyspace at all.
func RunChild(path string, stdin io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("bgsave child: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, stdin); err != nil {
		return fmt.Errorf("bgsave child: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("bgsave child: sync %s: %w", path, err)
	}
	return nil
}
