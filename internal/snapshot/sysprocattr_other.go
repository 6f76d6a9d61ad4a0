//go:build !linux

package snapshot

import "os/exec"

// setChildSysProcAttr is a no-op on platforms without the Linux-specific
// Setpgid/Pdeathsig process attributes.
func setChildSysProcAttr(cmd *exec.Cmd) {}
