package api

import (
	models "CoinSentry/internal/domain/models"
	"CoinSentry/internal/usecase"
	xhttp "CoinSentry/pkg/http"
	xlogger "CoinSentry/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScansEchoHandler exposes the scan pipeline over HTTP.
type ScansEchoHandler struct {
	logger *xlogger.Logger
	runner *usecase.Runner
}

func NewScansEchoHandler(logger *xlogger.Logger, runner *usecase.Runner) *ScansEchoHandler {
	return &ScansEchoHandler{logger: logger, runner: runner}
}

func (h *ScansEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api/v1")
	g.GET("/scans/latest", h.Latest)
	g.POST("/scans", h.Run)
}

// Health reports liveness.
func (h *ScansEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Latest returns the most recent scan report.
func (h *ScansEchoHandler) Latest(c echo.Context) error {
	report := h.runner.Latest()
	if report == nil {
		return xhttp.NotFoundResponse(c, "no scan has completed yet")
	}
	return xhttp.SuccessResponse(c, report)
}

// Run triggers a scan, optionally over an overridden rank window, and
// returns the resulting report.
func (h *ScansEchoHandler) Run(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// POST body binding skips the query string; the window override
	// may arrive either way.
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	if req.RankMin > 0 && req.RankMax > 0 && req.RankMax < req.RankMin {
		return xhttp.BadRequestResponse(c, "rank_max must be >= rank_min")
	}

	report, err := h.runner.RunScanOverride(c.Request().Context(), req.RankMin, req.RankMax)
	if err != nil {
		h.logger.Error("scan run error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, report)
}
