package scan_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runInBackground(ctx context.Context, loop *scan.Loop) <-chan error {
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	return done
}

func waitStopped(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("scan loop did not stop")
		return nil
	}
}

func TestFileSource_RegularFile(t *testing.T) {
	// Given: a capture file with two badges
	path := filepath.Join(t.TempDir(), "scans.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n"), 0o600))
	loop, engine, pub := newLoop(scan.FileSource{Path: path}, testutil.NewFakeClock(time.Now()))

	// When
	err := loop.Run(context.Background())

	// Then: both reach the engine and the run ends cleanly
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, engine.Calls())
	assert.Len(t, pub.Reports(), 2)
}

func TestFileSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent")
	loop, _, pub := newLoop(scan.FileSource{Path: path}, testutil.NewFakeClock(time.Now()))

	err := loop.Run(context.Background())

	require.Error(t, err)
	reports := pub.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, scan.KindSourceError, reports[0].Kind)
}

func TestReaderSource_RestartKeepsEveryLine(t *testing.T) {
	// Given: one shared reader, like stdin
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	source := scan.NewReaderSource(pr)
	loop, engine, _ := newLoop(source, testutil.NewFakeClock(time.Now()))

	// When: first run sees a badge and is stopped
	ctx, cancel := context.WithCancel(context.Background())
	done := runInBackground(ctx, loop)
	go func() { _, _ = pw.Write([]byte("1\n")) }()
	require.Eventually(t, func() bool { return len(engine.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, waitStopped(t, done))

	// When: a badge is scanned while stopped, then another after restart
	go func() {
		_, _ = pw.Write([]byte("2\n"))
		_, _ = pw.Write([]byte("3\n"))
	}()
	ctx, cancel = context.WithCancel(context.Background())
	done = runInBackground(ctx, loop)

	// Then: nothing is lost to the stopped run
	require.Eventually(t, func() bool { return len(engine.Calls()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []uint32{1, 2, 3}, engine.Calls())

	cancel()
	require.NoError(t, waitStopped(t, done))
}

func TestReaderSource_EndOfInputEndsLaterRuns(t *testing.T) {
	source := scan.NewReaderSource(io.LimitReader(nil, 0))
	loop, engine, _ := newLoop(source, testutil.NewFakeClock(time.Now()))

	require.NoError(t, loop.Run(context.Background()))
	require.NoError(t, loop.Run(context.Background()))
	assert.Empty(t, engine.Calls())
}
