// Package registration enrolls members from the public form and the
// management API, then hands the new member to the notifier.
package registration

import (
	"context"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/notify"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

const pendingAdvisory = "Your QR code is on its way to your inbox."

// Enrollment is a committed member plus what is known about the badge email
// when the response is written. Delivery is nil while the email is in flight.
// QRFile is set only once the badge image is known to exist.
type Enrollment struct {
	Member   *model.Member
	QRFile   string
	Delivery *notify.DeliveryResult
}

func (e Enrollment) Advisory() string {
	if e.Delivery == nil {
		return pendingAdvisory
	}
	return e.Delivery.Advisory()
}

type Dispatcher interface {
	Dispatch(ctx context.Context, m *model.Member) <-chan notify.DeliveryResult
}

type EnrollmentService struct {
	memberService *member.MemberService
	dispatcher    Dispatcher
	advisoryWait  time.Duration
}

func NewEnrollmentService(memberService *member.MemberService, dispatcher Dispatcher, advisoryWait time.Duration) *EnrollmentService {
	return &EnrollmentService{
		memberService: memberService,
		dispatcher:    dispatcher,
		advisoryWait:  advisoryWait,
	}
}

// Enroll commits the member first and only then dispatches the badge email.
// It waits at most advisoryWait for the delivery outcome; a failed or slow
// delivery never fails the enrollment.
func (s *EnrollmentService) Enroll(ctx context.Context, in member.CreateInput) (Enrollment, error) {
	m, err := s.memberService.Create(ctx, in)
	if err != nil {
		return Enrollment{}, err
	}

	enrollment := Enrollment{Member: m}
	if s.dispatcher == nil {
		return enrollment, nil
	}

	results := s.dispatcher.Dispatch(ctx, m)

	timer := time.NewTimer(s.advisoryWait)
	defer timer.Stop()

	select {
	case r := <-results:
		enrollment.Delivery = &r
		enrollment.QRFile = r.QRFile
	case <-timer.C:
		logger.FromContext(ctx).Info("Enrollment email still in flight", "member_id", m.ID)
	case <-ctx.Done():
	}
	return enrollment, nil
}
