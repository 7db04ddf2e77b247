// Package notify sends each new member their badge: a QR code of the member
// ID, written to disk and emailed as an attachment. Delivery is best effort
// and never undoes an enrollment.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"sync"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// ErrNotConfigured is the failure cause when no mail transport is set up.
var ErrNotConfigured = errors.New("email not configured")

// DeliveryFailure is advisory: the member exists, only the email is missing.
type DeliveryFailure struct {
	Reason string
	Err    error
}

func (e *DeliveryFailure) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *DeliveryFailure) Unwrap() error {
	return e.Err
}

// DeliveryResult is Sent when Failure is nil.
type DeliveryResult struct {
	MemberID uint32
	QRFile   string
	Failure  *DeliveryFailure
}

func (r DeliveryResult) Sent() bool {
	return r.Failure == nil
}

// Advisory is the message shown next to the enrollment confirmation.
func (r DeliveryResult) Advisory() string {
	if r.Sent() {
		return "Your QR code has been emailed to you."
	}
	msg := "We could not email your QR code (" + r.Failure.Reason + ")."
	if r.QRFile == "" {
		return msg + " Please ask an operator for your badge."
	}
	return msg + " You can download it below."
}

type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	QRDir       string
	QRSize      int
	SendTimeout time.Duration
}

type Notifier struct {
	mailer  Mailer
	cfg     Config
	metrics *metrics.Registry

	wg sync.WaitGroup
}

func NewNotifier(mailer Mailer, cfg Config, m *metrics.Registry) *Notifier {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 20 * time.Second
	}
	return &Notifier{mailer: mailer, cfg: cfg, metrics: m}
}

// NotifyEnrollment writes the member's badge and emails it. It runs
// synchronously; enrollment uses Dispatch.
func (n *Notifier) NotifyEnrollment(ctx context.Context, m *model.Member) DeliveryResult {
	log := logger.FromContext(ctx)
	result := DeliveryResult{MemberID: m.ID}

	filename := MemberQRFilename(m.ID)
	png, err := RenderQR(strconv.FormatUint(uint64(m.ID), 10), n.cfg.QRSize)
	if err == nil {
		_, err = savePNG(n.cfg.QRDir, filename, png)
	}
	if err != nil {
		return n.fail(ctx, result, "could not generate QR code", err)
	}
	result.QRFile = filename

	if n.mailer == nil || !n.mailer.Configured() {
		return n.fail(ctx, result, ErrNotConfigured.Error(), nil)
	}

	msg := Message{
		To:       m.Email,
		Subject:  "Your attendance QR code",
		TextBody: fmt.Sprintf("Hi %s,\n\nThanks for registering. Your member ID is %d.\nShow the attached QR code at the scanner to log in and out.\n", m.Name, m.ID),
		HTMLBody: fmt.Sprintf("<p>Hi %s,</p><p>Thanks for registering. Your member ID is <strong>%d</strong>.</p><p>Show the attached QR code at the scanner to log in and out.</p>", html.EscapeString(m.Name), m.ID),
		Attachments: []Attachment{{
			Name:        filename,
			ContentType: "image/png",
			Content:     png,
		}},
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return n.fail(ctx, result, "email delivery failed", err)
	}

	n.metrics.Notification("sent")
	log.Info("Enrollment email sent", "member_id", m.ID, "email", logger.MaskEmail(m.Email))
	return result
}

func (n *Notifier) fail(ctx context.Context, result DeliveryResult, reason string, err error) DeliveryResult {
	result.Failure = &DeliveryFailure{Reason: reason, Err: err}
	n.metrics.Notification("failed")
	logger.FromContext(ctx).Warn("Enrollment notification failed",
		"member_id", result.MemberID,
		"reason", reason,
		"error", err,
	)
	return result
}

// Dispatch runs NotifyEnrollment in the background under its own deadline,
// detached from ctx's cancellation. The returned channel receives exactly one
// result and is never closed early, so callers may stop waiting at any time.
func (n *Notifier) Dispatch(ctx context.Context, m *model.Member) <-chan DeliveryResult {
	out := make(chan DeliveryResult, 1)
	member := *m

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.SendTimeout)
		defer cancel()

		out <- n.NotifyEnrollment(sendCtx, &member)
	}()
	return out
}

// Wait blocks until in-flight dispatches finish or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
