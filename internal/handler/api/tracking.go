package api

import (
	"errors"
	"net/http"
	"time"

	models "github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/internal/usecase"
	xhttp "github.com/david89it/trading-opportunities-platform/pkg/http"
	xlogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TrackingHandler exposes the signal history and trade journal.
type TrackingHandler struct {
	logger   *xlogger.Logger
	tracking *usecase.TrackingService
	scan     *usecase.ScanService
}

func NewTrackingHandler(logger *xlogger.Logger, tracking *usecase.TrackingService, scan *usecase.ScanService) *TrackingHandler {
	return &TrackingHandler{logger: logger, tracking: tracking, scan: scan}
}

func (h *TrackingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/tracking")
	g.GET("/signals", h.ListSignals)
	g.POST("/signals", h.CreateSignal)
	g.PATCH("/signals/:id", h.ResolveSignal)
	g.GET("/stats", h.SignalStats)
	g.GET("/trades", h.ListTrades)
	g.POST("/trades", h.CreateTrade)
}

func (h *TrackingHandler) ListSignals(c echo.Context) error {
	req := &models.SignalListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	filter := domrepo.SignalFilter{
		Symbol: req.Symbol,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.From != "" {
		t, _ := time.Parse(time.RFC3339, req.From)
		filter.From = &t
	}
	if req.To != "" {
		t, _ := time.Parse(time.RFC3339, req.To)
		filter.To = &t
	}

	signals, total, err := h.tracking.ListSignals(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("list signals error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, total)
}

// CreateSignal starts tracking a previously persisted opportunity.
func (h *TrackingHandler) CreateSignal(c echo.Context) error {
	req := &models.SignalCreateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	oppID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("opportunity_id must be a valid uuid"))
	}
	opp, err := h.scan.GetOpportunity(c.Request().Context(), oppID)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("opportunity %s not found", oppID))
		}
		h.logger.Error("create signal lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	sig, err := h.tracking.RecordSignal(c.Request().Context(), opp, req.Notes)
	if err != nil {
		h.logger.Error("create signal error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, sig)
}

// SignalStats aggregates resolved outcomes, optionally for one symbol.
func (h *TrackingHandler) SignalStats(c echo.Context) error {
	stats, err := h.tracking.Stats(c.Request().Context(), c.QueryParam("symbol"))
	if err != nil {
		h.logger.Error("signal stats error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, http.StatusOK, stats)
}

func (h *TrackingHandler) ResolveSignal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("id must be a valid uuid"))
	}
	req := &models.ResolveSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.tracking.ResolveSignal(c.Request().Context(), id,
		models.SignalOutcome(req.Outcome), time.Now().UTC(), req.MFE, req.MAE, req.ActualR); err != nil {
		h.logger.Error("resolve signal error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *TrackingHandler) ListTrades(c echo.Context) error {
	req := &models.TradeListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	trades, total, err := h.tracking.ListTrades(c.Request().Context(), req.Symbol, req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("list trades error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, trades, total)
}

func (h *TrackingHandler) CreateTrade(c echo.Context) error {
	req := &models.TradeCreateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	trade := &models.TradeEntry{
		Symbol:     req.Symbol,
		Side:       models.TradeSide(req.Side),
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Shares:     req.Shares,
		EntryTime:  time.Now().UTC(),
		ExitReason: models.ExitReason(req.ExitReason),
		RealizedR:  req.RealizedR,
		Notes:      req.Notes,
	}
	if err := h.tracking.RecordTrade(c.Request().Context(), trade); err != nil {
		h.logger.Error("record trade error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, trade)
}
