package acquisition

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// acquisitionSubcommands are the gw subcommands that indicate the host's
// floppy controller is already in use by another process (spec §4.6).
var acquisitionSubcommands = []string{"read", "write", "convert", "erase", "info", "rpm", "seek", "clean"}

// siblingAcquisitionRunning does a best-effort scan of /proc for any process
// whose first command-line argument ends in "gw" (so "gw" and a path such as
// "/usr/bin/gw" both match) and whose second argument is one of the known
// acquisition subcommands. It returns ok=false (no error) on platforms
// without /proc, since this check is advisory only — the authoritative guard
// is this process's own activeRead handle.
func siblingAcquisitionRunning() (bool, error) {
	if runtime.GOOS != "linux" {
		return false, nil
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := parsePid(e.Name()); err != nil {
			continue
		}
		cmdline, err := os.ReadFile(filepath.Join("/proc", e.Name(), "cmdline"))
		if err != nil {
			continue
		}
		fields := strings.Split(strings.TrimRight(string(cmdline), "\x00"), "\x00")
		if matchesAcquisitionCommand(fields) {
			return true, nil
		}
	}

	return false, nil
}

func matchesAcquisitionCommand(fields []string) bool {
	if len(fields) < 2 {
		return false
	}
	if !strings.HasSuffix(fields[0], "gw") {
		return false
	}
	for _, sub := range acquisitionSubcommands {
		if fields[1] == sub {
			return true
		}
	}
	return false
}

func parsePid(name string) (int, error) {
	n := 0
	if name == "" {
		return 0, os.ErrInvalid
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
