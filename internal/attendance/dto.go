package attendance

import "github.com/nccmultimedia/attendance-server/internal/model"

type TransitionRequest struct {
	MemberID uint32 `json:"memberId" binding:"required"`
	Day      string `json:"day" binding:"omitempty,datetime=2006-01-02"`
	Event    string `json:"event" binding:"omitempty,event"`
}

type TransitionResponse struct {
	MemberID uint32 `json:"memberId"`
	Name     string `json:"name"`
	Outcome  string `json:"outcome"`
	Message  string `json:"message"`
	Advanced bool   `json:"advanced"`
}

func NewTransitionResponse(m *model.Member, o Outcome) TransitionResponse {
	return TransitionResponse{
		MemberID: m.ID,
		Name:     m.Name,
		Outcome:  o.String(),
		Message:  o.Message(),
		Advanced: o.Advanced(),
	}
}

type DayQuery struct {
	Day  string `form:"day" binding:"omitempty,datetime=2006-01-02"`
	Role string `form:"role" binding:"omitempty,role"`
}

type HistoryQuery struct {
	MemberID uint32 `form:"memberId"`
	Start    string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End      string `form:"end" binding:"omitempty,datetime=2006-01-02"`
}

type AbsentQuery struct {
	Cutoff string `form:"cutoff" binding:"omitempty,datetime=2006-01-02"`
	Weeks  int    `form:"weeks" binding:"omitempty,min=1,max=520"`
}

type AbsentMember struct {
	ID    uint32 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewAbsentMembers(ms []model.Member) []AbsentMember {
	out := make([]AbsentMember, len(ms))
	for i, m := range ms {
		out[i] = AbsentMember{ID: m.ID, Name: m.Name, Email: m.Email}
	}
	return out
}
