package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"RSIDashboard/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recover turns a handler panic into a 500 response.
func Recover(log *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					log.Error().Err(err).Bytes("stack", debug.Stack()).Msg("handler panicked")
					_ = c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
				}
			}()
			return next(c)
		}
	}
}

// RequestLogging logs HTTP requests.
func RequestLogging(log *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			ev := log.Debug()
			if res.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote", c.RealIP()).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Msg("http request")
			return nil
		}
	}
}

// Metrics records request counts and latency per route template.
func Metrics(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" || route == "/*" {
				route = "unmatched"
			}
			rec.ObserveHTTP(route, c.Request().Method, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
