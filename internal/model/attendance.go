package model

import "time"

// DayLayout is the storage format of Attendance.Day.
const DayLayout = "2006-01-02"

// Attendance is the single record of one member on one calendar day.
// LogoutAt is only ever set after LoginAt; once both are set the row is final.
type Attendance struct {
	ID       uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	MemberID uint32     `gorm:"column:member_id;not null;uniqueIndex:idx_attendance_member_day,priority:1"`
	Day      string     `gorm:"column:attendance_date;type:VARCHAR(10);not null;uniqueIndex:idx_attendance_member_day,priority:2;index:idx_attendance_day"`
	Event    Event      `gorm:"column:event;type:VARCHAR(50);not null;default:General"`
	LoginAt  *time.Time `gorm:"column:login_at"`
	LogoutAt *time.Time `gorm:"column:logout_at"`

	Member Member `gorm:"foreignKey:MemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (*Attendance) TableName() string {
	return "attendance"
}

// AttendanceState is the daily state machine position of a record.
type AttendanceState int

const (
	StateNotStarted AttendanceState = iota
	StateLoggedIn
	StateLoggedOut
)

func (s AttendanceState) String() string {
	switch s {
	case StateLoggedIn:
		return "logged_in"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "not_started"
	}
}

// State derives the state machine position from the timestamps.
func (a *Attendance) State() AttendanceState {
	switch {
	case a == nil || a.LoginAt == nil:
		return StateNotStarted
	case a.LogoutAt == nil:
		return StateLoggedIn
	default:
		return StateLoggedOut
	}
}

// AttendanceRow is a record joined with its member, as returned by the
// day and history queries.
type AttendanceRow struct {
	AttendanceID uint64     `gorm:"column:attendance_id" json:"attendanceId"`
	MemberID     uint32     `gorm:"column:member_id" json:"memberId"`
	Name         string     `gorm:"column:name" json:"name"`
	Role         Role       `gorm:"column:role" json:"role"`
	Day          string     `gorm:"column:attendance_date" json:"date"`
	LoginAt      *time.Time `gorm:"column:login_at" json:"login,omitempty"`
	LogoutAt     *time.Time `gorm:"column:logout_at" json:"logout,omitempty"`
	Event        Event      `gorm:"column:event" json:"event"`
}

// AttendanceCount is the number of recorded days of an active member.
type AttendanceCount struct {
	MemberID uint32 `gorm:"column:member_id" json:"memberId"`
	Name     string `gorm:"column:name" json:"name"`
	Total    int64  `gorm:"column:total" json:"total"`
}
