package handler

import (
	"errors"
	"net/http"
	"time"

	"catalog/internal/middleware"
	"catalog/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// StandardError はエラー時のレスポンス
type StandardError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

type FieldMessage struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// ValidationError は入力チェック（422）のレスポンス
type ValidationError struct {
	StandardError
	Errors []FieldMessage `json:"errors"`
}

func newStandardError(c echo.Context, status int, message string) StandardError {
	return StandardError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request().URL.Path,
	}
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, newStandardError(c, status, message))
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			c.Set(middleware.CtxErrorKey, err)
		}
		return errorJSON(c, he.Status, he.Message)
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		body := ValidationError{
			StandardError: newStandardError(c, http.StatusUnprocessableEntity, "validation error"),
			Errors:        make([]FieldMessage, 0, len(ves)),
		}
		for _, fe := range ves {
			body.Errors = append(body.Errors, FieldMessage{FieldName: fe.Field(), Message: fieldMessage(fe)})
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	}

	//500。原因はアクセスログに載せる
	c.Set(middleware.CtxErrorKey, err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}
