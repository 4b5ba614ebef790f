package api

import (
	"time"

	models "github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	"github.com/umi1970/TradeMatrix-sub001/internal/services/risk"
	"github.com/umi1970/TradeMatrix-sub001/internal/usecase"
	xhttp "github.com/umi1970/TradeMatrix-sub001/pkg/http"
	xlogger "github.com/umi1970/TradeMatrix-sub001/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DecisionEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type DecisionEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.EvaluationPipeline
	stats    *usecase.DecisionStatsUseCase
	levels   *usecase.LevelsUseCase
	scanner  *usecase.AlertScanner
	bars     *usecase.BarsUseCase
	sizer    *risk.PositionCalculator
	ops      *DecisionHandler
}

func NewDecisionEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.EvaluationPipeline,
	stats *usecase.DecisionStatsUseCase,
	levels *usecase.LevelsUseCase,
	scanner *usecase.AlertScanner,
	bars *usecase.BarsUseCase,
	sizer *risk.PositionCalculator,
	ops *DecisionHandler,
) *DecisionEchoHandler {
	return &DecisionEchoHandler{
		logger:   logger,
		pipeline: pipeline,
		stats:    stats,
		levels:   levels,
		scanner:  scanner,
		bars:     bars,
		sizer:    sizer,
		ops:      ops,
	}
}

func (h *DecisionEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/evaluate", h.Evaluate)
	g.POST("/plan", h.Plan)
	g.GET("/stats", h.Stats)
	g.GET("/levels", h.Levels)
	g.GET("/alerts/scan", h.ScanAlerts)
	g.GET("/bars", h.Bars)

	// read-side ops endpoints with rate limiting and response caching
	if h.ops != nil {
		o := e.Group("/ops")
		o.GET("/stats", echo.WrapHandler(h.ops.Stats()))
		o.GET("/levels", echo.WrapHandler(h.ops.Levels()))
		o.GET("/alerts/scan", echo.WrapHandler(h.ops.ScanAlerts()))
	}
}

func (h *DecisionEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var account *models.AccountState
	if req.Balance > 0 || req.Equity > 0 {
		account = &models.AccountState{
			Balance:       req.Balance,
			Equity:        req.Equity,
			OpenPositions: req.OpenPositions,
			DailyPnLPct:   req.DailyPnLPct,
		}
	}

	out, err := h.pipeline.Evaluate(c.Request().Context(), usecase.EvaluateParams{
		Symbol:        req.Symbol,
		Direction:     models.TradeDirection(req.Direction),
		Strategy:      req.Strategy,
		N:             req.N,
		Timeframe:     domrepo.NormalizeTimeframe(req.TF),
		HighRiskEvent: req.HighRiskEvent,
		Account:       account,
	})
	if err != nil {
		h.logger.Error("evaluate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *DecisionEchoHandler) Plan(c echo.Context) error {
	req := &models.PlanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	plan, err := h.sizer.Plan(req.Symbol, models.TradeDirection(req.Direction), req.Entry, req.StopLoss, req.Equity, req.RewardRatio)
	if err != nil {
		h.logger.Error("plan usecase error", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, err.Error())
	}

	if !req.KnockOut {
		return xhttp.SuccessResponse(c, plan)
	}
	ko, err := h.sizer.KnockOut(plan)
	if err != nil {
		h.logger.Error("knockout error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"plan":     plan,
		"knockout": ko,
	})
}

func (h *DecisionEchoHandler) Stats(c echo.Context) error {
	req := &models.DecisionStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stats.GetStats(c.Request().Context(), usecase.GetStatsParams{Symbol: req.Symbol, Hours: req.Hours})
	if err != nil {
		h.logger.Error("stats usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *DecisionEchoHandler) Levels(c echo.Context) error {
	req := &models.LevelsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	date := time.Now().UTC()
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return xhttp.BadRequestResponse(c, "date must be YYYY-MM-DD")
		}
		date = d
	}

	lv, err := h.levels.Resolve(c.Request().Context(), req.Symbol, date)
	if err != nil {
		h.logger.Error("levels usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	ladder, err := h.levels.Ladder(lv)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"levels": lv,
		"pivots": ladder,
	})
}

func (h *DecisionEchoHandler) ScanAlerts(c echo.Context) error {
	req := &models.AlertScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	alerts, err := h.scanner.Scan(c.Request().Context(), req.Symbol, req.N, domrepo.NormalizeTimeframe(req.TF))
	if err != nil {
		h.logger.Error("alert scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if alerts == nil {
		alerts = []*models.Alert{}
	}
	return xhttp.SuccessResponse(c, alerts)
}

func (h *DecisionEchoHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, ok := xhttp.ParseTime(req.From)
	if !ok {
		return xhttp.BadRequestResponse(c, "from must be RFC3339 or unix seconds")
	}
	to, ok := xhttp.ParseTime(req.To)
	if !ok {
		return xhttp.BadRequestResponse(c, "to must be RFC3339 or unix seconds")
	}

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
