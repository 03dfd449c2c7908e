package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"issue-tracker/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics 依 method、路由樣板與狀態碼計數每個請求
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		status := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if !c.Response().Committed {
				status = http.StatusInternalServerError
			}
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		return err
	}
}
