//go:build !windows

package acquisition

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminate sends SIGTERM to the child, matching the teacher pack's use of
// golang.org/x/sys for process-level control rather than os.Process.Kill's
// unconditional SIGKILL.
func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	return unix.Kill(p.Pid, unix.SIGTERM)
}
