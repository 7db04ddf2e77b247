package member

import (
	"time"

	"github.com/nccmultimedia/attendance-server/internal/model"
)

// CreateInput is the enrollment payload shared by the web form, the JSON
// registration endpoint and operator-side enrollment.
type CreateInput struct {
	Name    string `json:"name" form:"name" binding:"required,max=100"`
	Email   string `json:"email" form:"email" binding:"required,max=255"`
	Contact string `json:"contact" form:"contact" binding:"omitempty,phone"`
	Handle  string `json:"handle" form:"handle" binding:"omitempty,max=255"`
	Role    string `json:"role" form:"role" binding:"omitempty,role"`
}

type UpdateRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,max=255"`
	Contact string `json:"contact" binding:"omitempty,phone"`
	Handle  string `json:"handle" binding:"omitempty,max=255"`
	Role    string `json:"role" binding:"omitempty,role"`
}

type ListQuery struct {
	ActiveOnly bool   `form:"active"`
	Email      string `form:"email"`
}

type Response struct {
	ID        uint32    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Contact   string    `json:"contact,omitempty"`
	Handle    string    `json:"handle,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewResponse(m *model.Member) Response {
	return Response{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Contact:   m.Contact,
		Handle:    m.Handle,
		Role:      string(m.Role),
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func NewResponses(ms []model.Member) []Response {
	out := make([]Response, len(ms))
	for i := range ms {
		out[i] = NewResponse(&ms[i])
	}
	return out
}
