package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
)

// FieldHandler serves the field user's extra endpoints.
type FieldHandler struct{}

func NewFieldHandler() *FieldHandler {
	return &FieldHandler{}
}

// Evidence returns the evidence bundle of one detection.
//
// @Summary      Evidence
// @Tags         user
// @Produce      json
// @Param        id  path      string  true  "Detection id"
// @Success      200 {object}  domain.Evidence
// @Failure      404 {object}  errorResponse
// @Router       /user/evidence/{id} [get]
func (h *FieldHandler) Evidence(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}
	ev, err := hd.Backend.GetEvidence(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// ReportPDF downloads the report as a PDF.
//
// @Summary      Report PDF
// @Tags         user
// @Produce      application/pdf
// @Param        days         query  int     false  "Period in days"
// @Param        report_type  query  string  false  "Report type"
// @Success      200
// @Router       /user/reports/pdf [get]
func (h *FieldHandler) ReportPDF(c echo.Context) error {
	hd, err := handle(c)
	if err != nil {
		return err
	}
	q := service.ParamsFromQuery(c.QueryParams()).Report

	// Buffer so a failed download still gets a proper error status.
	var buf bytes.Buffer
	if _, err := hd.Backend.ExportReportPDF(c.Request().Context(), q, &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", reportFilename(q, time.Now())))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func reportFilename(q domain.ReportQuery, now time.Time) string {
	kind := q.ReportType
	if kind == "" {
		kind = domain.ReportDetections
	}
	return fmt.Sprintf("wildguard-%s-report-%s.pdf", kind, now.Format("2006-01-02"))
}
