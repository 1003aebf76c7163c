package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"receivables_monitor/internal/config"
	"receivables_monitor/internal/model"
	"receivables_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportHandler serves ledger snapshots, aging reports and rule sets
type ReportHandler struct {
	reports service.ReportService
	rules   service.RulesService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports service.ReportService, rules service.RulesService) *ReportHandler {
	return &ReportHandler{reports: reports, rules: rules}
}

func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Time{}, true
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'as_of', use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}

func (h *ReportHandler) snapshotError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		internalError(c, err, msg)
	}
}

func (h *ReportHandler) UploadLedger(c *gin.Context) {
	analystID, err := getAuthAnalystID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("ledger")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ledger file is required: " + err.Error()})
		return
	}
	src, err := file.Open()
	if err != nil {
		internalError(c, err, "Failed to open uploaded ledger")
		return
	}
	defer src.Close()

	snapshot, err := h.reports.ImportLedger(c.Request.Context(), analystID, file.Filename, file.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFileFormat), errors.Is(err, service.ErrFileSizeExceeded), errors.Is(err, service.ErrMalformedLedger):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, err, "Failed to import ledger")
		}
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *ReportHandler) ListSnapshots(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	snapshots, err := h.reports.ListSnapshots(c.Request.Context(), limit)
	if err != nil {
		internalError(c, err, "Failed to list ledger snapshots")
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func (h *ReportHandler) DeleteSnapshot(c *gin.Context) {
	analystID, err := getAuthAnalystID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	role, err := getAuthRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Analyst role not found"})
		return
	}

	if err := h.reports.DeleteSnapshot(c.Request.Context(), c.Param("id"), analystID, role); err != nil {
		h.snapshotError(c, err, "Failed to delete ledger snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ledger snapshot deleted successfully"})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		h.snapshotError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Reconcile(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	var target model.ReconciliationTarget
	var err error
	if target.Total, err = decimal.NewFromString(c.Query("target")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'target' must be a decimal amount"})
		return
	}
	if raw := c.Query("tolerance"); raw != "" {
		if target.Tolerance, err = decimal.NewFromString(raw); err != nil || target.Tolerance.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tolerance"})
			return
		}
	}
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count"})
			return
		}
		target.Count = &n
	}

	report, err := h.reports.Reconcile(c.Request.Context(), c.Param("id"), asOf, target)
	if err != nil {
		h.snapshotError(c, err, "Failed to reconcile report")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_outstanding": report.TotalOutstanding,
		"debtor_count":      report.DebtorCount,
		"reconciliation":    report.Reconciliation,
		"count_check":       report.CountCheck,
	})
}

func (h *ReportHandler) ExportDebtorsCSV(c *gin.Context) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	buf, err := h.reports.ExportDebtorsCSV(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		h.snapshotError(c, err, "Failed to export debtors to CSV")
		return
	}

	fileName := fmt.Sprintf("debtors_aging_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ReportHandler) GetRules(c *gin.Context) {
	rs, err := h.rules.Active(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to load rules")
		return
	}
	c.JSON(http.StatusOK, rs)
}

func (h *ReportHandler) UpdateRules(c *gin.Context) {
	analystID, err := getAuthAnalystID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rs, err := h.rules.Update(c.Request.Context(), analystID, req.Rules())
	if err != nil {
		if errors.Is(err, config.ErrInvalidRules) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		internalError(c, err, "Failed to update rules")
		return
	}
	c.JSON(http.StatusOK, rs)
}

// RegisterReportRoutes registers ledger and rules routes
func (h *ReportHandler) RegisterReportRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	ledgers := rg.Group("/ledgers")
	ledgers.Use(authMW)
	{
		ledgers.POST("", adminMW, h.UploadLedger)
		ledgers.GET("", h.ListSnapshots)
		ledgers.DELETE("/:id", h.DeleteSnapshot)
		ledgers.GET("/:id/report", h.GetReport)
		ledgers.GET("/:id/reconcile", h.Reconcile)
		ledgers.GET("/:id/debtors/export/csv", h.ExportDebtorsCSV)
	}

	rules := rg.Group("/rules")
	rules.Use(authMW)
	{
		rules.GET("", h.GetRules)
		rules.PUT("", adminMW, h.UpdateRules)
	}
}
