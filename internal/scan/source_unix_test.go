//go:build unix

package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFIFO(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scanner.fifo")
	require.NoError(t, syscall.Mkfifo(path, 0o600))
	t.Cleanup(func() {
		// releases an open still waiting for a writer
		if w, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, 0); err == nil {
			_ = w.Close()
		}
	})
	return path
}

func TestFileSource_FIFOStopBeforeWriter(t *testing.T) {
	// Given: no decoder has attached to the FIFO
	fifo := makeFIFO(t)
	loop, engine, pub := newLoop(scan.FileSource{Path: fifo}, testutil.NewFakeClock(time.Now()))

	ctx, cancel := context.WithCancel(context.Background())
	done := runInBackground(ctx, loop)
	time.Sleep(50 * time.Millisecond)

	// When
	cancel()

	// Then: prompt, clean exit with nothing reported
	require.NoError(t, waitStopped(t, done))
	assert.Empty(t, engine.Calls())
	assert.Empty(t, pub.Reports())
}

func TestFileSource_FIFOReadsUntilWriterCloses(t *testing.T) {
	fifo := makeFIFO(t)
	loop, engine, _ := newLoop(scan.FileSource{Path: fifo}, testutil.NewFakeClock(time.Now()))

	done := runInBackground(context.Background(), loop)

	// When: a decoder attaches, writes one badge and leaves
	w, err := os.OpenFile(fifo, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Then
	require.NoError(t, waitStopped(t, done))
	assert.Equal(t, []uint32{1}, engine.Calls())
}

func TestFileSource_FIFOStopWhileIdle(t *testing.T) {
	fifo := makeFIFO(t)
	loop, _, _ := newLoop(scan.FileSource{Path: fifo}, testutil.NewFakeClock(time.Now()))

	ctx, cancel := context.WithCancel(context.Background())
	done := runInBackground(ctx, loop)

	// Given: a decoder attached but silent
	w, err := os.OpenFile(fifo, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer w.Close()

	// When
	cancel()

	// Then
	require.NoError(t, waitStopped(t, done))
}
