package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/clock"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
	"gorm.io/gorm"
)

// maxAttempts bounds the compare-and-set loop. A record only moves forward,
// so a lost race is resolved on the next read.
const maxAttempts = 4

const (
	opCheckIn  = "check_in"
	opCheckOut = "check_out"
	opToggle   = "toggle"
)

// AttendanceService is the daily state machine of every (member, day) key.
// Writes are conditional updates at the store, so calls for different keys
// never wait on each other and calls for the same key are linearizable.
type AttendanceService struct {
	db                   *gorm.DB
	attendanceRepository *AttendanceRepository
	memberRepository     *member.MemberRepository
	clock                clock.Clock
	defaultEvent         model.Event
	metrics              *metrics.Registry
}

func NewAttendanceService(
	db *gorm.DB,
	attendanceRepository *AttendanceRepository,
	memberRepository *member.MemberRepository,
	clk clock.Clock,
	defaultEvent model.Event,
	m *metrics.Registry,
) *AttendanceService {
	if defaultEvent == "" {
		defaultEvent = model.EventGeneral
	}
	return &AttendanceService{
		db:                   db,
		attendanceRepository: attendanceRepository,
		memberRepository:     memberRepository,
		clock:                clk,
		defaultEvent:         defaultEvent,
		metrics:              m,
	}
}

// CheckIn records the first login of memberID on day. An empty day means
// today and an empty event means the configured default.
func (s *AttendanceService) CheckIn(ctx context.Context, memberID uint32, day string, event model.Event) (Outcome, error) {
	return s.transition(ctx, opCheckIn, memberID, day, event, checkInRule)
}

func (s *AttendanceService) CheckOut(ctx context.Context, memberID uint32, day string) (Outcome, error) {
	return s.transition(ctx, opCheckOut, memberID, day, "", checkOutRule)
}

// AutoToggle performs whichever of login or logout is valid next.
func (s *AttendanceService) AutoToggle(ctx context.Context, memberID uint32, day string, event model.Event) (Outcome, error) {
	return s.transition(ctx, opToggle, memberID, day, event, toggleRule)
}

func (s *AttendanceService) transition(ctx context.Context, op string, memberID uint32, day string, event model.Event, decide rule) (Outcome, error) {
	log := logger.FromContext(ctx)

	day, err := s.resolveDay(day)
	if err != nil {
		return 0, err
	}
	if event == "" {
		event = s.defaultEvent
	}

	if _, err := s.memberRepository.FindByID(ctx, s.db, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("member not found memberID=%d: %w", memberID, member.ErrMemberNotFound)
		}
		return 0, fmt.Errorf("find member: %w", err)
	}

	row, err := s.attendanceRepository.EnsureRow(ctx, s.db, memberID, day, event)
	if err != nil {
		return 0, fmt.Errorf("ensure attendance row: %w", err)
	}

	for attempt := 1; ; attempt++ {
		next, outcome := decide(row.State())

		switch next {
		case stepLogin:
			err = s.attendanceRepository.SetLogin(ctx, s.db, row.ID, s.clock.Now())
		case stepLogout:
			err = s.attendanceRepository.SetLogout(ctx, s.db, row.ID, s.clock.Now())
		default:
			err = nil
		}

		if err == nil {
			s.metrics.Transition(op, outcome.String())
			log.Info("Attendance transition",
				"operation", op,
				"member_id", memberID,
				"day", day,
				"outcome", outcome.String(),
			)
			return outcome, nil
		}

		if !errors.Is(err, sharedError.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if attempt == maxAttempts {
			log.Error("Attendance transition kept conflicting", "operation", op, "member_id", memberID, "day", day)
			return 0, fmt.Errorf("%s after %d attempts: %w", op, attempt, err)
		}

		log.Debug("Lost attendance race, re-reading", "operation", op, "member_id", memberID, "attempt", attempt)
		row, err = s.attendanceRepository.FindByID(ctx, s.db, row.ID)
		if err != nil {
			return 0, fmt.Errorf("re-read attendance row: %w", err)
		}
	}
}

// State returns the current state of (memberID, day) without creating a row.
func (s *AttendanceService) State(ctx context.Context, memberID uint32, day string) (model.AttendanceState, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return model.StateNotStarted, err
	}
	row, err := s.attendanceRepository.FindByKey(ctx, s.db, memberID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.StateNotStarted, nil
		}
		return model.StateNotStarted, fmt.Errorf("find attendance row: %w", err)
	}
	return row.State(), nil
}

func (s *AttendanceService) resolveDay(day string) (string, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return clock.Today(s.clock), nil
	}
	if !clock.ValidDay(day) {
		return "", fmt.Errorf("day %q: %w", day, ErrInvalidDay)
	}
	return day, nil
}
