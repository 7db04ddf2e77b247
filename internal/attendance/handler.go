package attendance

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/identity"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/handler"
)

type AttendanceHandler struct {
	attendanceService *AttendanceService
	resolver          *identity.Resolver
	absentWeeks       int
}

func NewAttendanceHandler(attendanceService *AttendanceService, resolver *identity.Resolver, absentWeeks int) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		resolver:          resolver,
		absentWeeks:       absentWeeks,
	}
}

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	h.transition(c, func(ctx context.Context, req TransitionRequest) (Outcome, error) {
		return h.attendanceService.CheckIn(ctx, req.MemberID, req.Day, model.Event(req.Event))
	})
}

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	h.transition(c, func(ctx context.Context, req TransitionRequest) (Outcome, error) {
		return h.attendanceService.CheckOut(ctx, req.MemberID, req.Day)
	})
}

func (h *AttendanceHandler) Toggle(c *gin.Context) {
	h.transition(c, func(ctx context.Context, req TransitionRequest) (Outcome, error) {
		return h.attendanceService.AutoToggle(ctx, req.MemberID, req.Day, model.Event(req.Event))
	})
}

func (h *AttendanceHandler) transition(c *gin.Context, apply func(context.Context, TransitionRequest) (Outcome, error)) {
	var request TransitionRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	ctx := c.Request.Context()
	m, err := h.resolver.ResolveByID(ctx, request.MemberID)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	outcome, err := apply(ctx, request)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTransitionResponse(m, outcome))
}

// Today serves GET /attendance/today?day=&role=
func (h *AttendanceHandler) Today(c *gin.Context) {
	var query DayQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	rows, err := h.attendanceService.Day(c.Request.Context(), query.Day, model.Role(query.Role))
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(rows))
}

func (h *AttendanceHandler) History(c *gin.Context) {
	var query HistoryQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	rows, err := h.attendanceService.History(c.Request.Context(), HistoryFilter{
		MemberID: query.MemberID,
		Start:    query.Start,
		End:      query.End,
	})
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(rows))
}

func (h *AttendanceHandler) Counts(c *gin.Context) {
	counts, err := h.attendanceService.Counts(c.Request.Context())
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	if counts == nil {
		counts = []model.AttendanceCount{}
	}
	c.JSON(http.StatusOK, counts)
}

// Absent serves GET /attendance/absent with either ?cutoff=YYYY-MM-DD or
// ?weeks=N (default from configuration).
func (h *AttendanceHandler) Absent(c *gin.Context) {
	var query AbsentQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	var (
		members []model.Member
		err     error
	)
	if query.Cutoff != "" {
		members, err = h.attendanceService.AbsentSince(c.Request.Context(), query.Cutoff)
	} else {
		weeks := query.Weeks
		if weeks == 0 {
			weeks = h.absentWeeks
		}
		members, err = h.attendanceService.AbsentForWeeks(c.Request.Context(), weeks)
	}
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAbsentMembers(members))
}

func nonNil(rows []model.AttendanceRow) []model.AttendanceRow {
	if rows == nil {
		return []model.AttendanceRow{}
	}
	return rows
}
