package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/model"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const rowColumns = "a.id AS attendance_id, m.id AS member_id, m.name AS name, m.role AS role, " +
	"a.attendance_date AS attendance_date, a.login_at AS login_at, a.logout_at AS logout_at, a.event AS event"

// ensureAttempts bounds EnsureRow when the winning row is not yet visible.
const ensureAttempts = 3

// HistoryFilter narrows History. Zero values mean no bound.
type HistoryFilter struct {
	MemberID uint32
	Start    string
	End      string
}

type AttendanceRepository struct{}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{}
}

func (r *AttendanceRepository) FindByID(ctx context.Context, db *gorm.DB, ID uint64) (*model.Attendance, error) {
	var row model.Attendance
	if err := db.WithContext(ctx).Where("id = ?", ID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *AttendanceRepository) FindByKey(ctx context.Context, db *gorm.DB, memberID uint32, day string) (*model.Attendance, error) {
	var row model.Attendance
	err := db.WithContext(ctx).
		Where("member_id = ? AND attendance_date = ?", memberID, day).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// EnsureRow returns the (memberID, day) record, inserting an empty one if
// absent. Concurrent callers for the same key all get the same row.
func (r *AttendanceRepository) EnsureRow(ctx context.Context, db *gorm.DB, memberID uint32, day string, event model.Event) (*model.Attendance, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		row, err := r.FindByKey(ctx, db, memberID, day)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if attempt == ensureAttempts {
			return nil, fmt.Errorf("attendance row for member %d on %s not visible after insert: %w", memberID, day, lastErr)
		}

		placeholder := &model.Attendance{MemberID: memberID, Day: day, Event: event}
		res := db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "member_id"}, {Name: "attendance_date"}},
				DoNothing: true,
			}).
			Create(placeholder)
		err = res.Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("insert attendance row: %w", err)
		}
		if err == nil && res.RowsAffected == 1 && placeholder.ID != 0 {
			return placeholder, nil
		}
		lastErr = err
		if lastErr == nil {
			lastErr = gorm.ErrRecordNotFound
		}
	}
}

// SetLogin stamps the login of a record whose login is still empty.
// It returns ErrConflict if another writer got there first.
func (r *AttendanceRepository) SetLogin(ctx context.Context, db *gorm.DB, ID uint64, ts time.Time) error {
	res := db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ? AND login_at IS NULL", ID).
		Update("login_at", ts)
	return conditional(res)
}

// SetLogout stamps the logout of a record that is logged in and not yet logged out.
func (r *AttendanceRepository) SetLogout(ctx context.Context, db *gorm.DB, ID uint64, ts time.Time) error {
	res := db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ? AND login_at IS NOT NULL AND logout_at IS NULL", ID).
		Update("logout_at", ts)
	return conditional(res)
}

func conditional(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sharedError.ErrConflict
	}
	return nil
}

// Day lists the records of day joined with their member, earliest login
// first and rows without a login last. An empty role means every role.
func (r *AttendanceRepository) Day(ctx context.Context, db *gorm.DB, day string, role model.Role) ([]model.AttendanceRow, error) {
	var rows []model.AttendanceRow
	q := db.WithContext(ctx).
		Table("attendance a").
		Select(rowColumns).
		Joins("JOIN member m ON m.id = a.member_id").
		Where("a.attendance_date = ?", day)
	if role != "" {
		q = q.Where("m.role = ?", role)
	}
	err := q.Order("CASE WHEN a.login_at IS NULL THEN 1 ELSE 0 END, a.login_at, a.id").
		Scan(&rows).Error
	return rows, err
}

// History lists records newest day first, then latest login first.
func (r *AttendanceRepository) History(ctx context.Context, db *gorm.DB, filter HistoryFilter) ([]model.AttendanceRow, error) {
	var rows []model.AttendanceRow
	q := db.WithContext(ctx).
		Table("attendance a").
		Select(rowColumns).
		Joins("JOIN member m ON m.id = a.member_id")
	if filter.MemberID != 0 {
		q = q.Where("m.id = ?", filter.MemberID)
	}
	if filter.Start != "" {
		q = q.Where("a.attendance_date >= ?", filter.Start)
	}
	if filter.End != "" {
		q = q.Where("a.attendance_date <= ?", filter.End)
	}
	err := q.Order("a.attendance_date DESC, CASE WHEN a.login_at IS NULL THEN 1 ELSE 0 END, a.login_at DESC, a.id DESC").
		Scan(&rows).Error
	return rows, err
}

// Counts returns the number of records per active member, members with none
// included, highest first and then by name.
func (r *AttendanceRepository) Counts(ctx context.Context, db *gorm.DB) ([]model.AttendanceCount, error) {
	var counts []model.AttendanceCount
	err := db.WithContext(ctx).
		Table("member m").
		Select("m.id AS member_id, m.name AS name, COUNT(a.id) AS total").
		Joins("LEFT JOIN attendance a ON a.member_id = m.id").
		Where("m.status = ?", model.StatusActive).
		Group("m.id, m.name").
		Order("total DESC, m.name ASC, m.id ASC").
		Scan(&counts).Error
	return counts, err
}

// AbsentSince returns active members with no record on or after cutoff.
func (r *AttendanceRepository) AbsentSince(ctx context.Context, db *gorm.DB, cutoff string) ([]model.Member, error) {
	var members []model.Member
	present := db.Model(&model.Attendance{}).
		Select("member_id").
		Where("attendance_date >= ?", cutoff)
	err := db.WithContext(ctx).
		Where("status = ?", model.StatusActive).
		Where("id NOT IN (?)", present).
		Order("name").Order("id").
		Find(&members).Error
	return members, err
}
