package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/neuroped/cds/internal/platform/outcome"
)

// RequestTimeout sets a context deadline on each request. The handler runs
// on the request goroutine; a handler that gives up with
// context.DeadlineExceeded gets a 504 OperationOutcome. The crash-test
// battery observes the same context and stops scheduling scenarios once it
// is cancelled. A non-positive timeout disables the deadline.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout:      timeout,
		ErrorHandler: timeoutError,
	})
}

func timeoutError(err error, c echo.Context) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusGatewayTimeout,
		outcome.Error(outcome.CodeTimeout, "Request processing exceeded the allowed time limit"))
}
