package member

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"github.com/nccmultimedia/attendance-server/internal/shared/handler"
)

type MemberHandler struct {
	memberService *MemberService
}

func NewMemberHandler(memberService *MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// List serves GET /members?active=true&email=...
func (h *MemberHandler) List(c *gin.Context) {
	var query ListQuery
	if !handler.BindQuery(c, &query) {
		return
	}

	if query.Email != "" {
		m, err := h.memberService.FindByEmail(c.Request.Context(), query.Email)
		if err != nil {
			handler.RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, []Response{NewResponse(m)})
		return
	}

	members, err := h.memberService.List(c.Request.Context(), query.ActiveOnly)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponses(members))
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := RequireIDParam(c)
	if !ok {
		return
	}

	m, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(m))
}

func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := RequireIDParam(c)
	if !ok {
		return
	}

	var request UpdateRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	m, err := h.memberService.Update(c.Request.Context(), id, request)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(m))
}

func (h *MemberHandler) Deactivate(c *gin.Context) {
	id, ok := RequireIDParam(c)
	if !ok {
		return
	}

	if err := h.memberService.Deactivate(c.Request.Context(), id); err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequireIDParam parses the :id path parameter or responds 400.
func RequireIDParam(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err == nil && id == 0 {
		err = errors.New("id must be positive")
	}
	if err != nil {
		resp := sharedError.ValidationFailed
		resp.Message = "id must be a positive integer."
		handler.RespondError(c, err, resp)
		return 0, false
	}
	return uint32(id), true
}
