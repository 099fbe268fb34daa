//go:build windows

package acquisition

import "os"

// terminate kills the child outright; Windows has no SIGTERM equivalent
// os/exec can portably send.
func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
