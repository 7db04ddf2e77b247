package registration

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/model"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"github.com/nccmultimedia/attendance-server/internal/shared/handler"
	"github.com/nccmultimedia/attendance-server/internal/shared/validator"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

var imageName = regexp.MustCompile(`^[A-Za-z0-9_-]+\.png$`)

var qrNotFound = sharedError.ErrorResponse{
	Status:  http.StatusNotFound,
	Code:    "REGISTRATION-001",
	Message: "QR code not found.",
}

type RegistrationHandler struct {
	enrollmentService *EnrollmentService
	qrDir             string
}

func NewRegistrationHandler(enrollmentService *EnrollmentService, qrDir string) *RegistrationHandler {
	return &RegistrationHandler{
		enrollmentService: enrollmentService,
		qrDir:             qrDir,
	}
}

// Form serves GET /register.
func (h *RegistrationHandler) Form(c *gin.Context) {
	h.page(c, http.StatusOK, formPage{Role: string(model.RoleYouth)})
}

// SubmitForm serves POST /register from the HTML form.
func (h *RegistrationHandler) SubmitForm(c *gin.Context) {
	var in member.CreateInput
	err := c.ShouldBind(&in)

	page := formPage{Name: in.Name, Email: in.Email, Contact: in.Contact, Handle: in.Handle, Role: in.Role}
	if err != nil {
		c.Error(err)
		page.Error = sharedError.InvalidRequest.Message
		if resp, ok := validator.ToErrorResponse(err); ok {
			page.Error = resp.Message
		}
		h.page(c, http.StatusBadRequest, page)
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		status := http.StatusInternalServerError
		if resp, ok := sharedError.ResolveDomainError(err); ok {
			status = resp.Status
		}
		page.Error = sharedError.ClientMessage(err)
		h.page(c, status, page)
		return
	}

	resp := NewEnrollmentResponse(enrollment)
	h.page(c, http.StatusCreated, formPage{Enrolled: &resp})
}

// Enroll serves the JSON registration endpoint and operator-side enrollment.
func (h *RegistrationHandler) Enroll(c *gin.Context) {
	var in member.CreateInput
	if !handler.BindJSON(c, &in) {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), in)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewEnrollmentResponse(enrollment))
}

// QR serves GET /qr/:filename from the QR directory.
func (h *RegistrationHandler) QR(c *gin.Context) {
	name := c.Param("filename")
	if !imageName.MatchString(name) {
		handler.RespondError(c, fmt.Errorf("qr filename %q rejected", name), qrNotFound)
		return
	}

	path := filepath.Join(h.qrDir, name)
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", name)
	}
	if err != nil {
		handler.RespondError(c, err, qrNotFound)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.File(path)
}

func (h *RegistrationHandler) page(c *gin.Context, status int, data formPage) {
	data.Roles = make([]string, len(model.Roles))
	for i, r := range model.Roles {
		data.Roles[i] = string(r)
	}
	if data.Role == "" {
		data.Role = string(model.RoleYouth)
	}
	c.Render(status, render.HTML{Template: pages, Name: "register.html", Data: data})
}
