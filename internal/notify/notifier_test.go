package notify_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	configured bool
	err        error
	delay      time.Duration

	mu   sync.Mutex
	sent []notify.Message
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func newMember(id uint32) *model.Member {
	m := model.NewMember("Ana", "ana@example.com", "", "", model.RoleYouth)
	m.ID = id
	return m
}

func TestNotifyEnrollment_Sent(t *testing.T) {
	// Given
	dir := t.TempDir()
	mailer := &fakeMailer{configured: true}
	n := notify.NewNotifier(mailer, notify.Config{QRDir: dir, QRSize: 256}, nil)

	// When
	result := n.NotifyEnrollment(context.Background(), newMember(7))

	// Then: badge written and attached
	assert.True(t, result.Sent())
	assert.Equal(t, "qr_7.png", result.QRFile)

	png, err := os.ReadFile(filepath.Join(dir, "qr_7.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com", mailer.sent[0].To)
	require.Len(t, mailer.sent[0].Attachments, 1)
	assert.Equal(t, png, mailer.sent[0].Attachments[0].Content)
}

func TestNotifyEnrollment_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		mailer notify.Mailer
		reason string
	}{
		{name: "no mailer", mailer: nil, reason: "email not configured"},
		{name: "not configured", mailer: &fakeMailer{}, reason: "email not configured"},
		{name: "send error", mailer: &fakeMailer{configured: true, err: errors.New("smtp down")}, reason: "email delivery failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			n := notify.NewNotifier(tc.mailer, notify.Config{QRDir: dir, QRSize: 256}, nil)

			result := n.NotifyEnrollment(context.Background(), newMember(3))

			require.False(t, result.Sent())
			assert.Equal(t, tc.reason, result.Failure.Reason)
			assert.Contains(t, result.Advisory(), tc.reason)
			// the badge is still available for download
			assert.FileExists(t, filepath.Join(dir, "qr_3.png"))
		})
	}
}

func TestDispatch_DetachedFromCallerCancellation(t *testing.T) {
	// Given: a slow mailer and a caller that gives up immediately
	mailer := &fakeMailer{configured: true, delay: 50 * time.Millisecond}
	n := notify.NewNotifier(mailer, notify.Config{QRDir: t.TempDir(), QRSize: 256, SendTimeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	// When
	ch := n.Dispatch(ctx, newMember(9))
	cancel()

	// Then: delivery still completes
	select {
	case result := <-ch:
		assert.True(t, result.Sent())
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not deliver a result")
	}
	require.NoError(t, n.Wait(context.Background()))
}

func TestDispatch_SendTimeout(t *testing.T) {
	mailer := &fakeMailer{configured: true, delay: time.Second}
	n := notify.NewNotifier(mailer, notify.Config{QRDir: t.TempDir(), QRSize: 256, SendTimeout: 20 * time.Millisecond}, nil)

	result := <-n.Dispatch(context.Background(), newMember(11))

	require.False(t, result.Sent())
	assert.ErrorIs(t, result.Failure, context.DeadlineExceeded)
}

func TestRenderQR(t *testing.T) {
	png, err := notify.RenderQR("http://attendance.test/register", 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestDeliveryResult_Advisory(t *testing.T) {
	failed := &notify.DeliveryFailure{Reason: "could not generate QR code"}

	assert.Equal(t, "Your QR code has been emailed to you.", notify.DeliveryResult{QRFile: "qr_1.png"}.Advisory())
	assert.Contains(t, notify.DeliveryResult{QRFile: "qr_1.png", Failure: failed}.Advisory(), "download it below")

	// no badge on disk, nothing to download
	noBadge := notify.DeliveryResult{Failure: failed}.Advisory()
	assert.Contains(t, noBadge, "could not generate QR code")
	assert.NotContains(t, noBadge, "download")
}
