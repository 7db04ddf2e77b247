package attendance

import "github.com/nccmultimedia/attendance-server/internal/model"

// Outcome is the result of one engine call. Rejected transitions are
// outcomes, not errors.
type Outcome int

const (
	// Recorded is a successful CheckIn or CheckOut.
	Recorded Outcome = iota + 1
	AlreadyLoggedIn
	AlreadyLoggedOut
	LoginRequiredFirst
	// LoggedIn, LoggedOut and AlreadyCompleted are AutoToggle results.
	LoggedIn
	LoggedOut
	AlreadyCompleted
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case AlreadyLoggedIn:
		return "already_logged_in"
	case AlreadyLoggedOut:
		return "already_logged_out"
	case LoginRequiredFirst:
		return "login_required_first"
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	case AlreadyCompleted:
		return "already_completed"
	default:
		return "unknown"
	}
}

// Message is the operator-facing text for o.
func (o Outcome) Message() string {
	switch o {
	case Recorded:
		return "Recorded."
	case AlreadyLoggedIn:
		return "Already logged in today."
	case AlreadyLoggedOut:
		return "Already logged out today."
	case LoginRequiredFirst:
		return "Cannot log out before logging in."
	case LoggedIn:
		return "Login recorded."
	case LoggedOut:
		return "Logout recorded."
	case AlreadyCompleted:
		return "Attendance already completed today."
	default:
		return ""
	}
}

// Advanced reports whether the call moved the record forward.
func (o Outcome) Advanced() bool {
	return o == Recorded || o == LoggedIn || o == LoggedOut
}

type step int

const (
	stepNone step = iota
	stepLogin
	stepLogout
)

// rule decides, from the current state, which write to attempt and what
// to report if it succeeds (or, for stepNone, what to report outright).
type rule func(model.AttendanceState) (step, Outcome)

func checkInRule(s model.AttendanceState) (step, Outcome) {
	if s == model.StateNotStarted {
		return stepLogin, Recorded
	}
	return stepNone, AlreadyLoggedIn
}

func checkOutRule(s model.AttendanceState) (step, Outcome) {
	switch s {
	case model.StateNotStarted:
		return stepNone, LoginRequiredFirst
	case model.StateLoggedIn:
		return stepLogout, Recorded
	default:
		return stepNone, AlreadyLoggedOut
	}
}

func toggleRule(s model.AttendanceState) (step, Outcome) {
	switch s {
	case model.StateNotStarted:
		return stepLogin, LoggedIn
	case model.StateLoggedIn:
		return stepLogout, LoggedOut
	default:
		return stepNone, AlreadyCompleted
	}
}
