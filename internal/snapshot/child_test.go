package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunChildWritesAndSyncs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memds-export.dat")

	err := RunChild(path, strings.NewReader("hello snapshot"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello snapshot", string(got))
}

func TestRunChildFailsOnUnwritablePath(t *testing.T) {
	err := RunChild("/nonexistent-dir-xyz/out.dat", strings.NewReader("x"))
	require.Error(t, err)
}
