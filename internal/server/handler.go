package server

import (
	"context"
	"net/http"
	"time"

	"RSIDashboard/internal/collector"
	"RSIDashboard/internal/model"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Service is what the HTTP layer needs from the application.
type Service interface {
	Signals(ctx context.Context) (collector.Result, error)
	RecentRuns(limit int) ([]model.RunSummary, error)
	LastRefresh() (time.Time, bool)
}

var validate = validator.New()

type errorBody struct {
	Error string `json:"error"`
}

type signalsQuery struct {
	Sort  string `query:"sort" validate:"omitempty,oneof=coin price trend rsi_1w rsi_1d rsi_4h entry position"`
	Order string `query:"order" default:"asc" validate:"oneof=asc desc"`
}

type runsQuery struct {
	Limit int `query:"limit" default:"20" validate:"gte=1,lte=500"`
}

type healthBody struct {
	Status      string     `json:"status"`
	Cached      bool       `json:"cached"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
}

type handler struct {
	svc Service
	log *zerolog.Logger
}

func (h *handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/healthz", h.health)

	api := e.Group("/api")
	api.GET("/signals", h.signals)
	api.GET("/sentiment", h.sentiment)
	api.GET("/runs", h.runs)
}

// readAndValidate binds query parameters, applies defaults and validates.
func readAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := defaults.Set(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// result returns the current pipeline output, or false after answering 503 when there is none.
func (h *handler) result(c echo.Context) (collector.Result, bool) {
	res, err := h.svc.Signals(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("signals refresh failed")
		if len(res.Records) == 0 {
			_ = c.JSON(http.StatusServiceUnavailable, errorBody{Error: "signals unavailable"})
			return res, false
		}
	}
	return res, true
}

func (h *handler) index(c echo.Context) error {
	res, ok := h.result(c)
	if !ok {
		return nil
	}
	page := indexPage{Records: res.Records, Sentiment: sentimentText(res.Sentiment)}
	if at, cached := h.svc.LastRefresh(); cached {
		page.RefreshedAt = at
	}
	return c.Render(http.StatusOK, indexTemplate, page)
}

func (h *handler) signals(c echo.Context) error {
	var q signalsQuery
	if err := readAndValidate(c, &q); err != nil {
		return err
	}
	res, ok := h.result(c)
	if !ok {
		return nil
	}
	records := res.Records
	if q.Sort != "" {
		records = SortRecords(records, q.Sort, q.Order == "desc")
	}
	return c.JSON(http.StatusOK, records)
}

func (h *handler) sentiment(c echo.Context) error {
	res, ok := h.result(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, res.Sentiment)
}

func (h *handler) runs(c echo.Context) error {
	var q runsQuery
	if err := readAndValidate(c, &q); err != nil {
		return err
	}
	runs, err := h.svc.RecentRuns(q.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if runs == nil {
		runs = []model.RunSummary{}
	}
	return c.JSON(http.StatusOK, runs)
}

func (h *handler) health(c echo.Context) error {
	body := healthBody{Status: "ok"}
	if at, ok := h.svc.LastRefresh(); ok {
		body.Cached = true
		body.LastRefresh = &at
	}
	return c.JSON(http.StatusOK, body)
}
