//go:build linux

package snapshot

import (
	"os/exec"
	"syscall"
)

// setChildSysProcAttr isolates the bgsave child into its own process
// group and ensures it is killed if this process dies first, mirroring
// the process-supervision discipline used elsewhere for child processes.
func setChildSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}
}
