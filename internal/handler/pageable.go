package handler

import (
	"errors"
	"strconv"

	"catalog/internal/page"

	"github.com/labstack/echo/v4"
)

// page / size / sort クエリを Pageable にする（page は0始まり）
func parsePageable(c echo.Context) (page.Pageable, error) {
	pageNo := 0
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page.Pageable{}, errors.New("invalid page")
		}
		pageNo = n
	}

	size := page.DefaultSize
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page.Pageable{}, errors.New("invalid size")
		}
		size = n
	}

	orders, err := page.ParseSort(c.QueryParams()["sort"])
	if err != nil {
		return page.Pageable{}, err
	}

	return page.Of(pageNo, size, orders...), nil
}

func hasPagingParams(c echo.Context) bool {
	q := c.QueryParams()
	return q.Has("page") || q.Has("size") || q.Has("sort")
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
