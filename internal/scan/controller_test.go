package scan_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_StartStop(t *testing.T) {
	// Given
	pr, pw := io.Pipe()
	defer pw.Close()
	source := &trackingSource{reader: pr}
	loop, engine, _ := newLoop(source, testutil.NewFakeClock(time.Now()))
	controller := scan.NewController(context.Background(), loop)
	ctx := context.Background()

	assert.ErrorIs(t, controller.Stop(ctx), scan.ErrScannerNotRunning)

	// When: started
	require.NoError(t, controller.Start())
	assert.ErrorIs(t, controller.Start(), scan.ErrScannerRunning)
	assert.True(t, controller.Status().Running)

	// When: a token arrives on the source
	go func() { _, _ = pw.Write([]byte("2\n")) }()
	require.Eventually(t, func() bool { return len(engine.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	// When: stopped
	require.NoError(t, controller.Stop(ctx))

	// Then
	status := controller.Status()
	assert.False(t, status.Running)
	assert.Empty(t, status.LastError)
	_, closed := source.counts()
	assert.Equal(t, 1, closed)
}

func TestController_RecordsLastError(t *testing.T) {
	source := &trackingSource{openErr: io.ErrUnexpectedEOF}
	loop, _, _ := newLoop(source, testutil.NewFakeClock(time.Now()))
	controller := scan.NewController(context.Background(), loop)

	require.NoError(t, controller.Start())

	require.Eventually(t, func() bool { return !controller.Status().Running }, time.Second, 5*time.Millisecond)
	assert.Contains(t, controller.Status().LastError, io.ErrUnexpectedEOF.Error())
}

func TestController_StartedAtUsesClock(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	started := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	loop, _, _ := newLoop(&trackingSource{reader: pr}, testutil.NewFakeClock(started))
	controller := scan.NewController(context.Background(), loop)

	require.NoError(t, controller.Start())
	defer func() { _ = controller.Stop(context.Background()) }()

	status := controller.Status()
	require.NotNil(t, status.StartedAt)
	assert.True(t, started.Equal(*status.StartedAt))
}
