package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/shared/handler"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	exporter  *Exporter
	refresher *Refresher
}

func NewReportHandler(exporter *Exporter, refresher *Refresher) *ReportHandler {
	return &ReportHandler{
		exporter:  exporter,
		refresher: refresher,
	}
}

// CSV serves GET /export/attendance.csv with the history filters.
func (h *ReportHandler) CSV(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := h.exporter.CSV(c.Request.Context(), &buf, filter); err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	attachment(c, "attendance.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ReportHandler) XLSX(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := h.exporter.XLSX(c.Request.Context(), &buf, filter); err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	attachment(c, "attendance.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Dashboard serves the latest snapshot; ?refresh=true rebuilds it first.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	_, cached := h.refresher.Snapshot()
	if !cached || c.Query("refresh") == "true" {
		if err := h.refresher.Refresh(c.Request.Context()); err != nil {
			handler.RespondDomainError(c, err)
			return
		}
	}

	snap, _ := h.refresher.Snapshot()
	c.JSON(http.StatusOK, snap)
}

func bindFilter(c *gin.Context) (attendance.HistoryFilter, bool) {
	var query attendance.HistoryQuery
	if !handler.BindQuery(c, &query) {
		return attendance.HistoryFilter{}, false
	}
	return attendance.HistoryFilter{
		MemberID: query.MemberID,
		Start:    query.Start,
		End:      query.End,
	}, true
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}
