package httpserver

import (
	"fmt"

	"moviecatalog/errs"

	"github.com/labstack/echo/v4"
)

const defaultErrorCode = "100500"

// APIResponse is the body of every error response.
type APIResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeError(c echo.Context, status int, message string, fields map[string]string, err error) error {
	return c.JSON(status, APIResponse{
		Code:    errorCode(err, status),
		Message: message,
		Errors:  fields,
	})
}

func errorCode(err error, status int) string {
	if _, ok := err.(*echo.HTTPError); !ok {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			return "100010"
		case errs.ENOTFOUND:
			return "100404"
		case errs.ECONFLICT:
			return "100409"
		case errs.EUNAUTHORIZED:
			return "100401"
		case errs.ENOTIMPLEMENTED:
			return "100501"
		case errs.EINTERNAL:
			return defaultErrorCode
		}
	}

	if status != 0 {
		return fmt.Sprintf("100%03d", status)
	}
	return defaultErrorCode
}
