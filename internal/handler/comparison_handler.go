package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmatally/internal/service"
)

// ComparisonHandler handles box count and reconciliation endpoints.
type ComparisonHandler struct {
	comparisonService service.ComparisonService
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(comparisonService service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{comparisonService: comparisonService}
}

// RecordCount handles POST /api/v1/invoices/:id/counts
func (h *ComparisonHandler) RecordCount(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input service.BoxCountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	bc, err := h.comparisonService.RecordCount(c.Request.Context(), invoiceID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, bc)
}

// ListCounts handles GET /api/v1/invoices/:id/counts
func (h *ComparisonHandler) ListCounts(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	counts, err := h.comparisonService.ListCounts(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, counts)
}

// DeleteCount handles DELETE /api/v1/invoices/:id/counts/:countId
func (h *ComparisonHandler) DeleteCount(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	countID, ok := parseUUIDParam(c, "countId")
	if !ok {
		return
	}
	if err := h.comparisonService.DeleteCount(c.Request.Context(), invoiceID, countID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "box count deleted"})
}

// Compare handles GET /api/v1/invoices/:id/comparison
func (h *ComparisonHandler) Compare(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.comparisonService.Compare(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Report handles GET /api/v1/invoices/:id/report
func (h *ComparisonHandler) Report(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	report, err := h.comparisonService.Report(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.String(http.StatusOK, report)
}

// ExportXLSX handles GET /api/v1/invoices/:id/report.xlsx
func (h *ComparisonHandler) ExportXLSX(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.comparisonService.ExportXLSX(c.Request.Context(), invoiceID, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("reconciliation-%s.xlsx", invoiceID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCSV handles GET /api/v1/invoices/:id/report.csv
func (h *ComparisonHandler) ExportCSV(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.comparisonService.ExportCSV(c.Request.Context(), invoiceID, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
