package attendance

import (
	"context"
	"fmt"

	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/clock"
)

// Today lists today's records, optionally for one role.
func (s *AttendanceService) Today(ctx context.Context, role model.Role) ([]model.AttendanceRow, error) {
	return s.Day(ctx, "", role)
}

func (s *AttendanceService) Day(ctx context.Context, day string, role model.Role) ([]model.AttendanceRow, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	rows, err := s.attendanceRepository.Day(ctx, s.db, day, role)
	if err != nil {
		return nil, fmt.Errorf("list attendance for %s: %w", day, err)
	}
	return rows, nil
}

func (s *AttendanceService) History(ctx context.Context, filter HistoryFilter) ([]model.AttendanceRow, error) {
	for _, d := range []string{filter.Start, filter.End} {
		if d != "" && !clock.ValidDay(d) {
			return nil, fmt.Errorf("day %q: %w", d, ErrInvalidDay)
		}
	}
	rows, err := s.attendanceRepository.History(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("attendance history: %w", err)
	}
	return rows, nil
}

func (s *AttendanceService) Counts(ctx context.Context) ([]model.AttendanceCount, error) {
	counts, err := s.attendanceRepository.Counts(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("attendance counts: %w", err)
	}
	return counts, nil
}

func (s *AttendanceService) AbsentSince(ctx context.Context, cutoff string) ([]model.Member, error) {
	if !clock.ValidDay(cutoff) {
		return nil, fmt.Errorf("cutoff %q: %w", cutoff, ErrInvalidDay)
	}
	members, err := s.attendanceRepository.AbsentSince(ctx, s.db, cutoff)
	if err != nil {
		return nil, fmt.Errorf("absent members: %w", err)
	}
	return members, nil
}

// AbsentForWeeks is AbsentSince with a cutoff weeks before today.
func (s *AttendanceService) AbsentForWeeks(ctx context.Context, weeks int) ([]model.Member, error) {
	return s.AbsentSince(ctx, clock.DaysBefore(clock.Today(s.clock), 7*weeks))
}
