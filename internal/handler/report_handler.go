package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/export"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReportHandler serves the analytics report and its exports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetReport handles GET /api/v1/reports?period=6months|year.
// Unknown periods fall back to six months.
func (h *ReportHandler) GetReport(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	report, err := h.reportService.GetReport(c.Request().Context(), userID, c.QueryParam("period"))
	if err != nil {
		return serviceError(c, err, userID, "Failed to build report")
	}
	return c.JSON(http.StatusOK, report)
}

// DownloadReport handles GET /api/v1/reports/export and streams the workbook
func (h *ReportHandler) DownloadReport(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filename, data, err := h.reportService.ExportXLSX(c.Request().Context(), userID, c.QueryParam("period"))
	if err != nil {
		return serviceError(c, err, userID, "Failed to export report")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType, data)
}

// ArchiveReport handles POST /api/v1/reports/export. The workbook is stored in
// object storage and a short-lived download link is returned.
func (h *ReportHandler) ArchiveReport(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return NewUnauthorizedError(c, "Authentication required")
	}

	archive, err := h.reportService.Archive(c.Request().Context(), userID, c.QueryParam("period"))
	if err != nil {
		return serviceError(c, err, userID, "Failed to archive report")
	}

	log.Info().Str("user_id", userID.String()).Str("key", archive.Key).Msg("Report archived")
	return c.JSON(http.StatusCreated, archive)
}
