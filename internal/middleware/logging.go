package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogging logs every handled request with method, uri, status and duration
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			logrus.WithFields(logrus.Fields{
				"method":   req.Method,
				"uri":      req.RequestURI,
				"status":   c.Response().Status,
				"duration": time.Since(start).String(),
			}).Info("request handled")

			return err
		}
	}
}
