package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	repo "catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// repositoryのエラーをHTTPErrorにする。想定外のものはログに残して500。
func toHTTPError(ctx context.Context, log *logrus.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrIntegrity):
		log.WithContext(ctx).WithError(err).WithField("op", op).Warn("integrity violation")
		return NewHTTPError(http.StatusConflict, "integrity violation")
	}

	log.WithContext(ctx).WithError(err).WithField("op", op).Error("db error")
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
