package scan_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/identity"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	members map[string]uint32
	err     error
}

func (r *stubResolver) ResolveScanned(_ context.Context, token string) (uint32, error) {
	if r.err != nil {
		return 0, r.err
	}
	if strings.HasPrefix(token, "http") {
		return 0, &identity.Unresolvable{Token: token, Reason: identity.DecoyLink}
	}
	if id, ok := r.members[token]; ok {
		return id, nil
	}
	if token == "abc" {
		return 0, &identity.Unresolvable{Token: token, Reason: identity.NotAnID}
	}
	return 0, &identity.Unresolvable{Token: token, Reason: identity.UnknownMember}
}

type stubEngine struct {
	mu    sync.Mutex
	calls []uint32
}

func (e *stubEngine) AutoToggle(_ context.Context, memberID uint32, _ string, _ model.Event) (attendance.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, memberID)
	if len(e.calls)%2 == 1 {
		return attendance.LoggedIn, nil
	}
	return attendance.LoggedOut, nil
}

func (e *stubEngine) Calls() []uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]uint32(nil), e.calls...)
}

type recorder struct {
	mu      sync.Mutex
	reports []scan.Report
}

func (r *recorder) Publish(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, v.(scan.Report))
}

func (r *recorder) Reports() []scan.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]scan.Report(nil), r.reports...)
}

func newLoop(source scan.Source, clk *testutil.FakeClock) (*scan.Loop, *stubEngine, *recorder) {
	engine := &stubEngine{}
	pub := &recorder{}
	loop := scan.NewLoop(
		source,
		scan.NewDeduplicator(2*time.Second),
		&stubResolver{members: map[string]uint32{"1": 1, "2": 2}},
		engine,
		clk,
		pub,
		nil,
		scan.LoopConfig{RegisterURL: "http://attendance.test/register"},
	)
	return loop, engine, pub
}

func TestSubmit_Pipeline(t *testing.T) {
	// Given
	clk := testutil.NewFakeClock(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))
	loop, engine, pub := newLoop(nil, clk)
	ctx := context.Background()

	// When/Then: first scan toggles
	r := loop.Submit(ctx, " 1 ")
	assert.Equal(t, scan.KindTransition, r.Kind)
	assert.Equal(t, uint32(1), r.MemberID)
	assert.Equal(t, attendance.LoggedIn.String(), r.Outcome)

	// When/Then: held badge within the window is suppressed
	clk.Advance(time.Second)
	assert.Equal(t, scan.KindSuppressed, loop.Submit(ctx, "1").Kind)

	// When/Then: after the window it reaches the engine again
	clk.Advance(2 * time.Second)
	assert.Equal(t, attendance.LoggedOut.String(), loop.Submit(ctx, "1").Outcome)

	// When/Then: poster link is ignored silently, unknown badge is reported
	assert.Equal(t, scan.KindIgnored, loop.Submit(ctx, "http://attendance.test/register").Kind)
	unknown := loop.Submit(ctx, "999")
	assert.Equal(t, scan.KindUnresolved, unknown.Kind)
	assert.Contains(t, unknown.Message, "http://attendance.test/register")
	assert.Equal(t, scan.KindUnresolved, loop.Submit(ctx, "abc").Kind)
	assert.Equal(t, scan.KindIgnored, loop.Submit(ctx, "   ").Kind)

	assert.Equal(t, []uint32{1, 1}, engine.Calls())

	kinds := []string{}
	for _, rep := range pub.Reports() {
		kinds = append(kinds, rep.Kind)
	}
	assert.Equal(t, []string{
		scan.KindTransition, scan.KindTransition, scan.KindUnresolved, scan.KindUnresolved,
	}, kinds)
}

func TestSubmit_ResolverFailureDoesNotReachEngine(t *testing.T) {
	clk := testutil.NewFakeClock(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))
	engine := &stubEngine{}
	loop := scan.NewLoop(nil, scan.NewDeduplicator(time.Second),
		&stubResolver{err: errors.New("database is locked")},
		engine, clk, nil, nil, scan.LoopConfig{})

	r := loop.Submit(context.Background(), "1")

	assert.Equal(t, scan.KindError, r.Kind)
	assert.Empty(t, engine.Calls())
}

func TestRun_ProcessesUntilEndOfInput(t *testing.T) {
	// Given
	clk := testutil.NewFakeClock(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))
	source := scan.NewReaderSource(strings.NewReader("1\n1\n2\nnot-a-badge\n"))
	loop, engine, _ := newLoop(source, clk)

	// When
	err := loop.Run(context.Background())

	// Then: the repeated 1 is suppressed
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, engine.Calls())
}

type trackingSource struct {
	openErr error
	reader  io.Reader

	mu     sync.Mutex
	opened int
	closed int
}

func (s *trackingSource) Open(ctx context.Context) (scan.Stream, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	inner, err := scan.NewReaderSource(s.reader).Open(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return &trackingStream{Stream: inner, src: s}, nil
}

func (s *trackingSource) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

type trackingStream struct {
	scan.Stream
	src *trackingSource
}

func (s *trackingStream) Close() error {
	s.src.mu.Lock()
	s.src.closed++
	s.src.mu.Unlock()
	return s.Stream.Close()
}

func TestRun_CancelReleasesSource(t *testing.T) {
	// Given: a source that never produces input
	pr, pw := io.Pipe()
	defer pw.Close()
	source := &trackingSource{reader: pr}
	clk := testutil.NewFakeClock(time.Now())
	loop, _, _ := newLoop(source, clk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// When
	require.Eventually(t, func() bool {
		opened, _ := source.counts()
		return opened == 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	// Then: prompt exit and the source is released
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scan loop did not stop after cancellation")
	}
	opened, closed := source.counts()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

func TestRun_SourceFailuresReportedOnce(t *testing.T) {
	clk := testutil.NewFakeClock(time.Now())

	t.Run("acquisition", func(t *testing.T) {
		source := &trackingSource{openErr: errors.New("no camera")}
		loop, _, pub := newLoop(source, clk)

		err := loop.Run(context.Background())

		require.Error(t, err)
		reports := pub.Reports()
		require.Len(t, reports, 1)
		assert.Equal(t, scan.KindSourceError, reports[0].Kind)
	})

	t.Run("read error", func(t *testing.T) {
		source := &trackingSource{reader: failingReader{}}
		loop, _, pub := newLoop(source, clk)

		err := loop.Run(context.Background())

		require.Error(t, err)
		assert.Len(t, pub.Reports(), 1)
		_, closed := source.counts()
		assert.Equal(t, 1, closed)
	})
}
