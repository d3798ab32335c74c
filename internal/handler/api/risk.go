package api

import (
	"errors"
	"net/http"
	"time"

	models "github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	"github.com/david89it/trading-opportunities-platform/internal/risk"
	xhttp "github.com/david89it/trading-opportunities-platform/pkg/http"
	xlogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RiskHandler exposes the Monte Carlo simulation endpoint.
type RiskHandler struct {
	logger  *xlogger.Logger
	metrics domrepo.Metrics
}

func NewRiskHandler(logger *xlogger.Logger, metrics domrepo.Metrics) *RiskHandler {
	return &RiskHandler{logger: logger, metrics: metrics}
}

func (h *RiskHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/risk")
	g.POST("/montecarlo", h.MonteCarlo)
}

// MonteCarlo runs a simulation and returns summary statistics, derived risk
// metrics, and optionally a downsampled set of equity paths.
func (h *RiskHandler) MonteCarlo(c echo.Context) error {
	start := time.Now()
	req := &models.MonteCarloRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	res, err := risk.Run(req.SimulationParameters)
	if err != nil {
		var invalid *models.InvalidParameterError
		if errors.As(err, &invalid) {
			return xhttp.AppErrorResponse(c,
				xhttp.NewAppError("ERR_INVALID_PARAMETER", invalid.Field, invalid.Message, http.StatusBadRequest))
		}
		h.logger.Error("simulation error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	out := &models.MonteCarloResponse{
		Summary: res,
		Risk:    risk.DerivedMetrics(res, req.StartingCapital),
	}
	if req.IncludePaths {
		out.SamplePaths = risk.SamplePaths(res, req.NumSamplePaths)
	}

	// Grids are large; never serialize them in the API payload.
	res.EquityPaths = nil
	res.FinalEquity = nil
	res.MaxDrawdowns = nil
	res.TradeReturns = nil

	h.metrics.RecordSimulation(req.NumSimulations)
	h.metrics.RecordLatency("montecarlo", time.Since(start).Seconds())
	h.logger.Info("simulation complete",
		xlogger.Int("num_simulations", req.NumSimulations),
		xlogger.Int("trades", req.TotalTrades()),
		xlogger.Duration("duration_ms", time.Since(start)),
	)
	return xhttp.SuccessResponse(c, out)
}
