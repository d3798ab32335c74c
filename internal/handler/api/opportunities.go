// Package api holds the Echo HTTP handlers for the scanner, the risk
// simulator, and the tracking journal.
package api

import (
	"errors"
	"time"

	models "github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/internal/usecase"
	xhttp "github.com/david89it/trading-opportunities-platform/pkg/http"
	xlogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OpportunitiesHandler exposes the scan pipeline and persisted results.
type OpportunitiesHandler struct {
	logger   *xlogger.Logger
	scan     *usecase.ScanService
	universe []string
}

func NewOpportunitiesHandler(logger *xlogger.Logger, scan *usecase.ScanService, universe []string) *OpportunitiesHandler {
	return &OpportunitiesHandler{logger: logger, scan: scan, universe: universe}
}

func (h *OpportunitiesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/scan", h.Scan)
	g.GET("/opportunities", h.List)
	g.GET("/opportunities/:id", h.GetByID)
}

// Scan runs the pipeline over the requested (or default) universe and returns
// the kept opportunities ordered by score.
func (h *OpportunitiesHandler) Scan(c echo.Context) error {
	start := time.Now()
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = h.universe
	}

	opps, err := h.scan.ScanUniverse(c.Request().Context(), symbols, req.MinScore, req.Limit)
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	h.logger.Info("scan request served",
		xlogger.Int("symbols", len(symbols)),
		xlogger.Int("results", len(opps)),
		xlogger.Duration("duration_ms", time.Since(start)),
	)
	return xhttp.ListResponse(c, opps, int64(len(opps)))
}

// List returns persisted opportunities matching the query filter.
func (h *OpportunitiesHandler) List(c echo.Context) error {
	req := &models.OpportunityListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	opps, total, err := h.scan.ListOpportunities(c.Request().Context(), domrepo.OpportunityFilter{
		Symbol:   req.Symbol,
		Status:   models.GuardrailStatus(req.Status),
		MinScore: req.MinScore,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		h.logger.Error("list opportunities error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, opps, total)
}

// GetByID returns one persisted opportunity. The path parameter is either an
// opportunity UUID or a ticker symbol; a symbol resolves to its latest row.
func (h *OpportunitiesHandler) GetByID(c echo.Context) error {
	param := c.Param("id")
	id, err := uuid.Parse(param)
	if err != nil {
		return h.latestBySymbol(c, param)
	}

	opp, err := h.scan.GetOpportunity(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("opportunity %s not found", id))
		}
		h.logger.Error("get opportunity error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, opp)
}

func (h *OpportunitiesHandler) latestBySymbol(c echo.Context, symbol string) error {
	opps, _, err := h.scan.ListOpportunities(c.Request().Context(), domrepo.OpportunityFilter{
		Symbol: symbol,
		Limit:  1,
	})
	if err != nil {
		h.logger.Error("get opportunity by symbol error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if len(opps) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no opportunity for symbol %s", symbol))
	}
	return xhttp.SuccessResponse(c, opps[0])
}
