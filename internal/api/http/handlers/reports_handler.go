package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportsHandler exposes the derived report views.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// TopAgents GET /reports/top-agents.
func (h *ReportsHandler) TopAgents(c *fiber.Ctx) error {
	rankings, err := h.reports.TopAgents(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AgentRankingRow, 0, len(rankings))
	for _, row := range rankings {
		items = append(items, dto.AgentRankingRow{
			AgentID:        row.AgentID,
			Name:           row.Name,
			Email:          row.Email,
			TotalResolved:  row.TotalResolved,
			TotalAssigned:  row.TotalAssigned,
			ResolutionRate: row.ResolutionRate,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CategoryPerformance GET /reports/category-performance.
func (h *ReportsHandler) CategoryPerformance(c *fiber.Ctx) error {
	rows, err := h.reports.CategoryPerformance(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryPerformanceRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.CategoryPerformanceRow{
			CategoryID:           row.CategoryID,
			CategoryName:         row.CategoryName,
			ClosedTickets:        row.ClosedTickets,
			AvgResolutionMinutes: row.AvgResolutionMinutes,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// MonthlyVolume GET /reports/monthly-volume?year=&month=.
func (h *ReportsHandler) MonthlyVolume(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		return apperrors.NewValidationError("year query parameter required", nil)
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return apperrors.NewValidationError("month query parameter required", nil)
	}
	rows, err := h.reports.MonthlyVolume(c.Context(), year, month)
	if err != nil {
		return err
	}
	items := make([]dto.VolumeRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.VolumeRow{
			Day:          row.Day.Format("2006-01-02"),
			CategoryName: row.CategoryName,
			Count:        row.Count,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
