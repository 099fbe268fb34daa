package acquisition_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/realhidden/floppyexplorer/acquisition"
)

// fakeBinary writes an executable shell script standing in for `gw` and
// returns its path. Skips on non-Unix since the script needs a shebang.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake binary needs a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "gw")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestCoordinator_Info_ParsesKeyValue(t *testing.T) {
	bin := fakeBinary(t, `echo "model: Greaseweazle F7"
echo "firmware: 1.19"`)
	c := acquisition.New(bin, nil)

	info, err := c.Info(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Greaseweazle F7", info["model"])
	require.Equal(t, "1.19", info["firmware"])
}

func TestCoordinator_Rpm_ParsesToken(t *testing.T) {
	bin := fakeBinary(t, `echo "Spinning up... 300.1 RPM"`)
	c := acquisition.New(bin, nil)

	rpm, err := c.Rpm(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 300.1, rpm, 0.001)
}

func TestCoordinator_Read_StreamsProgressAndCompletes(t *testing.T) {
	bin := fakeBinary(t, `echo "track 0"
echo "track 1"
echo "done"
exit 0`)
	c := acquisition.New(bin, nil)

	var lines []string
	last, err := c.Read(context.Background(), "/tmp/out.img", acquisition.ReadOptions{
		OnProgress: func(l string) { lines = append(lines, l) },
	})
	require.NoError(t, err)
	require.Equal(t, "done", last)
	require.Equal(t, []string{"track 0", "track 1", "done"}, lines)
}

func TestCoordinator_Read_NonZeroExitFails(t *testing.T) {
	bin := fakeBinary(t, `echo "oops" >&2
exit 1`)
	c := acquisition.New(bin, nil)

	_, err := c.Read(context.Background(), "/tmp/out.img", acquisition.ReadOptions{})
	require.Error(t, err)
	kind, ok := acquisition.KindOf(err)
	require.True(t, ok)
	require.Equal(t, acquisition.KindExternalReadFailed, kind)
}

func TestCoordinator_Read_RejectsSecondInFlight(t *testing.T) {
	bin := fakeBinary(t, `sleep 2`)
	c := acquisition.New(bin, nil)

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = c.Read(context.Background(), "/tmp/out1.img", acquisition.ReadOptions{})
	}()
	<-started
	time.Sleep(100 * time.Millisecond)

	_, err := c.Read(context.Background(), "/tmp/out2.img", acquisition.ReadOptions{})
	require.Error(t, err)
	kind, ok := acquisition.KindOf(err)
	require.True(t, ok)
	require.Equal(t, acquisition.KindDeviceBusy, kind)
}

func TestCoordinator_Read_Cancellation(t *testing.T) {
	bin := fakeBinary(t, `echo "start"
sleep 30
echo "never"`)
	c := acquisition.New(bin, nil)

	cancel := acquisition.NewCancellationHandle()
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel.Cancel()
	}()

	_, err := c.Read(context.Background(), "/tmp/out.img", acquisition.ReadOptions{Cancel: cancel})
	require.Error(t, err)
	kind, ok := acquisition.KindOf(err)
	require.True(t, ok)
	require.Equal(t, acquisition.KindCancelled, kind)
}
