package model

// Role is the ministry group a member belongs to.
type Role string

const (
	RoleYouth    Role = "Youth"
	RoleYoungPro Role = "Young Pro"
	RoleTanders  Role = "Tanders"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleYouth, RoleYoungPro, RoleTanders}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRole returns the default role for an empty string.
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return RoleYouth, true
	}
	r := Role(s)
	return r, r.Valid()
}

// Event labels the gathering an attendance record belongs to.
type Event string

const (
	EventGeneral       Event = "General"
	EventRagedYouth    Event = "Raged Youth"
	EventSundayService Event = "Sunday Service"
	EventPrayerMeeting Event = "Prayer Meeting"
)

var Events = []Event{EventGeneral, EventRagedYouth, EventSundayService, EventPrayerMeeting}

func (e Event) Valid() bool {
	for _, v := range Events {
		if e == v {
			return true
		}
	}
	return false
}

// ParseEvent returns EventGeneral for an empty string.
func ParseEvent(s string) (Event, bool) {
	if s == "" {
		return EventGeneral, true
	}
	e := Event(s)
	return e, e.Valid()
}

// MemberStatus is the soft-delete lifecycle of a member.
type MemberStatus string

const (
	StatusActive   MemberStatus = "active"
	StatusInactive MemberStatus = "inactive"
)
