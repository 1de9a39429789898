package handlers

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/hoocms/customers/internal/errors"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler maps errors to statuses and shapes every failure body
// as {"error": "<message>"}. Storage and unexpected errors are logged and
// collapsed to the generic internal error, their details never reach the caller
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var businessErr *apperrors.BusinessErr
	var notFoundErr *apperrors.EntryNotFoundErr
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &businessErr):
		status = http.StatusBadRequest
		message = businessErr.Error()
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		message = notFoundErr.Error()
	case errors.As(err, &echoErr):
		status = echoErr.Code
		message = fmt.Sprintf("%v", echoErr.Message)
	}

	if status >= http.StatusInternalServerError {
		logrus.Errorf("error occurred on request processing - %v", err)
		message = "Internal server error"
	}

	if jsonErr := c.JSON(status, map[string]string{"error": message}); jsonErr != nil {
		logrus.Errorf("failed to write error response - %v", jsonErr)
	}
}
