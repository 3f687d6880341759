package handler

import (
	"context"
	"net/http"
	"strconv"

	"catalog/internal/dto"
	"catalog/internal/middleware"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 読み取りは公開、書き込みには write（認証など）を通す
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, write ...echo.MiddlewareFunc) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)

	e.POST("/products", h.insert, write...)
	e.PUT("/products/:id", h.update, write...)
	e.DELETE("/products/:id", h.delete, write...)

	//変更履歴は書き込みと同じ権限で読む
	e.GET("/products/:id/history", h.history, write...)
}

// name / categoryId があれば検索、なければ条件なしの一覧
func (h *ProductHandler) list(c echo.Context) error {
	p, err := parsePageable(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	q := c.QueryParams()
	if !q.Has("name") && !q.Has("categoryId") {
		out, err := h.uc.FindAllPaged(c.Request().Context(), p)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}

	categoryID := c.QueryParam("categoryId")
	if categoryID == "" {
		categoryID = usecase.NoCategoryFilter
	}

	out, err := h.uc.Search(c.Request().Context(), c.QueryParam("name"), categoryID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.FindByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) insert(c echo.Context) error {
	var req dto.ProductDTO
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Insert(actorContext(c), req)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/products/"+strconv.FormatInt(out.ID, 10))
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req dto.ProductDTO
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Update(actorContext(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Delete(actorContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) history(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid limit")
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid offset")
	}

	out, err := h.uc.History(c.Request().Context(), id, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 認証済みならユーザーIDを履歴用に ctx へ載せる
func actorContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if userID, ok := c.Get(middleware.CtxUserIDKey).(int64); ok {
		return usecase.WithActor(ctx, userID)
	}
	return ctx
}
