package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/application/services/orchestration"
	"github.com/vsinha/shortage/pkg/application/services/report"
	"github.com/vsinha/shortage/pkg/domain/entities"
	"github.com/vsinha/shortage/pkg/domain/repositories"
	"github.com/vsinha/shortage/pkg/infrastructure/events"
	"github.com/vsinha/shortage/pkg/interfaces/cli/output"
)

// PlanningService is the application surface the API exposes
type PlanningService interface {
	RunCompletePlanning(ctx context.Context, view ledger.View) (*orchestration.PlanningResult, error)
	AddOrder(ctx context.Context, date, model string, quantity entities.Quantity) (*entities.ProductionOrder, error)
	ListOrders(ctx context.Context) ([]entities.ProductionOrder, error)
	RemoveOrder(ctx context.Context, id string) error
	ClearPlan(ctx context.Context) error
	Events(fromPosition int) ([]events.Event, error)
}

var _ PlanningService = (*orchestration.PlanningOrchestrator)(nil)

// ShortageHandler serves reports and the production plan. Every report
// request recomputes the ledger from the current inputs.
type ShortageHandler struct {
	svc    PlanningService
	logger *zap.Logger
}

// NewShortageHandler constructs the HTTP handler adapter.
func NewShortageHandler(svc PlanningService, logger *zap.Logger) *ShortageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShortageHandler{svc: svc, logger: logger}
}

// ReportQuery holds the query parameters of GET /api/v1/report
type ReportQuery struct {
	Model        string `form:"model"`
	Part         string `form:"part"`
	Name         string `form:"name"`
	ShortageOnly bool   `form:"shortage_only"`
	Format       string `form:"format"`
}

// Filter returns the post-simulation filter of the query
func (q ReportQuery) Filter() report.Filter {
	return report.Filter{Part: q.Part, Name: q.Name, ShortageOnly: q.ShortageOnly}
}

// Report computes and returns the shortage report. format=csv|xlsx|html
// selects a download instead of JSON.
func (h *ShortageHandler) Report(c *gin.Context) {
	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	result, err := h.svc.RunCompletePlanning(c.Request.Context(), ledger.View{Model: q.Model})
	if err != nil {
		if errors.Is(err, entities.ErrMissingRequiredField) {
			h.logger.Warn("report rejected invalid input", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed computing report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute report"})
		return
	}

	filtered := report.Apply(result.Report, q.Filter())

	switch strings.ToLower(q.Format) {
	case "", output.FormatJSON:
		c.JSON(http.StatusOK, filtered)
	case output.FormatCSV:
		c.Header("Content-Disposition", "attachment; filename="+output.GroupsCSV)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := output.WriteGroupsCSV(c.Writer, filtered); err != nil {
			h.logger.Error("failed writing csv report", zap.Error(err))
		}
	case output.FormatXLSX:
		c.Header("Content-Disposition", "attachment; filename=shortage_report.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := output.WriteXLSX(c.Writer, filtered); err != nil {
			h.logger.Error("failed writing xlsx report", zap.Error(err))
		}
	case output.FormatHTML:
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := output.WriteHTML(c.Writer, filtered, output.Config{RunTime: result.Duration}); err != nil {
			h.logger.Error("failed writing html report", zap.Error(err))
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format " + q.Format})
	}
}

// AddOrderRequest is the body of POST /api/v1/plan
type AddOrderRequest struct {
	Date     string          `json:"date"`
	Model    string          `json:"model"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ListPlan returns the stored production plan.
func (h *ShortageHandler) ListPlan(c *gin.Context) {
	orders, err := h.svc.ListOrders(c.Request.Context())
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":           orders,
		"planned_quantity": entities.TotalPlannedQuantity(orders),
	})
}

// AddOrder stores one manual production order.
func (h *ShortageHandler) AddOrder(c *gin.Context) {
	var req AddOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid plan payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.svc.AddOrder(c.Request.Context(), req.Date, req.Model, req.Quantity)
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// RemoveOrder deletes one stored order.
func (h *ShortageHandler) RemoveOrder(c *gin.Context) {
	if err := h.svc.RemoveOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.planError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearPlan deletes every stored order.
func (h *ShortageHandler) ClearPlan(c *gin.Context) {
	if err := h.svc.ClearPlan(c.Request.Context()); err != nil {
		h.planError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Events returns plan changes and shortage transitions from ?from= onwards.
func (h *ShortageHandler) Events(c *gin.Context) {
	from := 0
	if raw := c.Query("from"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a non-negative integer"})
			return
		}
		from = n
	}

	evts, err := h.svc.Events(from)
	if err != nil {
		h.logger.Error("failed reading events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts, "next": from + len(evts)})
}

func (h *ShortageHandler) planError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, orchestration.ErrNoPlanStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, orchestration.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("plan operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "plan operation failed"})
	}
}
