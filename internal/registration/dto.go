package registration

type EnrollmentResponse struct {
	MemberID  uint32 `json:"memberId"`
	Name      string `json:"name"`
	QRURL     string `json:"qrUrl,omitempty"`
	Delivered bool   `json:"delivered"`
	Pending   bool   `json:"pending"`
	Advisory  string `json:"advisory"`
}

func NewEnrollmentResponse(e Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		MemberID:  e.Member.ID,
		Name:      e.Member.Name,
		Delivered: e.Delivery != nil && e.Delivery.Sent(),
		Pending:   e.Delivery == nil,
		Advisory:  e.Advisory(),
	}
	if e.QRFile != "" {
		resp.QRURL = "/qr/" + e.QRFile
	}
	return resp
}

// formPage is the data of templates/register.html.
type formPage struct {
	Roles    []string
	Error    string
	Name     string
	Email    string
	Contact  string
	Handle   string
	Role     string
	Enrolled *EnrollmentResponse
}
