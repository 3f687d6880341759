package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog/internal/dto"
	"catalog/internal/handler"
	infraRepo "catalog/internal/infra/repository"
	"catalog/internal/logger"
	"catalog/internal/middleware"
	"catalog/internal/page"
	"catalog/internal/server"
	"catalog/internal/testutil"
	"catalog/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// helper
// =====================

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type testServer struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestServer(t *testing.T, jwtSecret string) testServer {
	t.Helper()
	return newTestServerWithLogger(t, jwtSecret, logger.NewWithOutput(io.Discard, "error", "text"))
}

func newTestServerWithLogger(t *testing.T, jwtSecret string, log *logrus.Logger) testServer {
	t.Helper()

	gormDB := testutil.NewSeededSQLite(t)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)

	txm := infraRepo.NewTxManagerGorm(gormDB)
	productUC := usecase.NewProductUsecase(infraRepo.NewProductGormRepository(gormDB), txm, log)
	categoryUC := usecase.NewCategoryUsecase(txm, log)

	e, err := server.New(log, server.Handlers{
		Products:   handler.NewProductHandler(productUC),
		Categories: handler.NewCategoryHandler(categoryUC),
		Health:     handler.NewHealthHandler(sqlDB),
	}, server.Options{JWTSecret: jwtSecret})
	require.NoError(t, err)

	return testServer{e: e, db: gormDB}
}

func (s testServer) do(t *testing.T, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func newProductBody() dto.ProductDTO {
	return dto.ProductDTO{
		Name:        "Phone X",
		Description: "Good phone",
		Price:       decimal.RequireFromString("800.50"),
		ImgURL:      "https://img.example.com/phone.png",
		Date:        time.Date(2020, 10, 20, 3, 0, 0, 0, time.UTC),
		Categories:  []dto.CategoryDTO{{ID: 2}},
	}
}

// =====================
// GET /products
// =====================

func TestProducts_List_DefaultPage(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	pg := decode[page.Page[dto.ProductDTO]](t, rec)
	assert.Equal(t, int64(25), pg.TotalElements)
	assert.Equal(t, page.DefaultSize, pg.Size)
	assert.Len(t, pg.Content, page.DefaultSize)
	assert.True(t, pg.First)
}

func TestProducts_List_SortedByName(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/products?page=0&size=12&sort=name", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	pg := decode[page.Page[dto.ProductDTO]](t, rec)
	require.Len(t, pg.Content, 12)
	assert.Equal(t, "Macbook Pro", pg.Content[0].Name)
	assert.Equal(t, "PC Gamer", pg.Content[1].Name)
	assert.Equal(t, "PC Gamer Alfa", pg.Content[2].Name)
}

func TestProducts_Search_ByCategoryCarriesCategories(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/products?categoryId=2,3&size=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	pg := decode[page.Page[dto.ProductDTO]](t, rec)
	assert.Equal(t, int64(23), pg.TotalElements)
	assert.Equal(t, 5, pg.TotalPages)
	require.Len(t, pg.Content, 5)

	//名前順がデフォルト
	assert.Equal(t, "Macbook Pro", pg.Content[0].Name)
	assert.Len(t, pg.Content[0].Categories, 2)
	for _, p := range pg.Content {
		assert.NotEmpty(t, p.Categories)
	}
}

func TestProducts_Search_ByName(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/products?name=RINGS", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	pg := decode[page.Page[dto.ProductDTO]](t, rec)
	require.Len(t, pg.Content, 1)
	assert.Equal(t, "The Lord of the Rings", pg.Content[0].Name)
	assert.True(t, decimal.RequireFromString("90.5").Equal(pg.Content[0].Price))
}

func TestProducts_List_BadQuery(t *testing.T) {
	s := newTestServer(t, "")

	for _, path := range []string{
		"/products?page=-1",
		"/products?size=abc",
		"/products?sort=name,sideways",
		"/products?sort=description",
		"/products?categoryId=1,x",
	} {
		rec := s.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

// =====================
// GET /products/:id
// =====================

func TestProducts_Detail(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/products/3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[dto.ProductDTO](t, rec)
	assert.Equal(t, "Macbook Pro", p.Name)
	assert.Len(t, p.Categories, 2)

	rec = s.do(t, http.MethodGet, "/products/1000", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	e := decode[handler.StandardError](t, rec)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "/products/1000", e.Path)

	rec = s.do(t, http.MethodGet, "/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =====================
// POST / PUT / DELETE
// =====================

func TestProducts_Insert(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/products", newProductBody(), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/products/26", rec.Header().Get(echo.HeaderLocation))

	p := decode[dto.ProductDTO](t, rec)
	assert.Equal(t, int64(26), p.ID)
	assert.Equal(t, []dto.CategoryDTO{{ID: 2, Name: "Electronics"}}, p.Categories)
}

func TestProducts_Insert_ValidationError(t *testing.T) {
	s := newTestServer(t, "")

	body := newProductBody()
	body.Name = "abc"
	body.Description = ""
	body.Price = decimal.NewFromInt(-1)
	body.Date = time.Now().Add(24 * time.Hour)

	rec := s.do(t, http.MethodPost, "/products", body, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	ve := decode[handler.ValidationError](t, rec)
	fields := make([]string, 0, len(ve.Errors))
	for _, fm := range ve.Errors {
		fields = append(fields, fm.FieldName)
	}
	assert.ElementsMatch(t, []string{"name", "description", "price", "date"}, fields)
}

func TestProducts_Insert_MalformedBody(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_Insert_UnknownCategory(t *testing.T) {
	s := newTestServer(t, "")

	body := newProductBody()
	body.Categories = []dto.CategoryDTO{{ID: 99}}

	rec := s.do(t, http.MethodPost, "/products", body, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_Update(t *testing.T) {
	s := newTestServer(t, "")

	body := newProductBody()
	body.Name = "Macbook Air"
	body.Categories = []dto.CategoryDTO{{ID: 3}}

	rec := s.do(t, http.MethodPut, "/products/3", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p := decode[dto.ProductDTO](t, rec)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "Macbook Air", p.Name)
	assert.Equal(t, []dto.CategoryDTO{{ID: 3, Name: "Computers"}}, p.Categories)

	rec = s.do(t, http.MethodPut, "/products/1000", body, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_Delete(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodDelete, "/products/1", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/products/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/products", nil, "")
	pg := decode[page.Page[dto.ProductDTO]](t, rec)
	assert.Equal(t, int64(24), pg.TotalElements)
}

func TestProducts_Delete_Referenced(t *testing.T) {
	s := newTestServer(t, "")

	require.NoError(t, s.db.Exec(`CREATE TABLE order_items (
		id INTEGER PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id)
	)`).Error)
	require.NoError(t, s.db.Exec(`INSERT INTO order_items (product_id) VALUES (?)`, 2).Error)

	rec := s.do(t, http.MethodDelete, "/products/2", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/products/2", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =====================
// 書き込みの認証
// =====================

func TestProducts_WriteGuard(t *testing.T) {
	secret := "test-secret"
	s := newTestServer(t, secret)

	rec := s.do(t, http.MethodPost, "/products", newProductBody(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"role": middleware.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	rec = s.do(t, http.MethodPost, "/products", newProductBody(), "Bearer "+signed)
	assert.Equal(t, http.StatusCreated, rec.Code)

	//読み取りは認証なし
	rec = s.do(t, http.MethodGet, "/products/1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =====================
// 変更履歴
// =====================

func TestProducts_History(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/products", newProductBody(), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := newProductBody()
	body.Name = "Phone X2"
	rec = s.do(t, http.MethodPut, "/products/26", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/products/26", nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	//削除後も読める
	rec = s.do(t, http.MethodGet, "/products/26/history", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	logs := decode[[]dto.AuditLogDTO](t, rec)
	require.Len(t, logs, 3)
	assert.Equal(t, "DELETE_PRODUCT", logs[0].Action)
	assert.Equal(t, "UPDATE_PRODUCT", logs[1].Action)
	assert.Equal(t, "CREATE_PRODUCT", logs[2].Action)

	var after dto.ProductDTO
	require.NoError(t, json.Unmarshal(logs[1].After, &after))
	assert.Equal(t, "Phone X2", after.Name)
	//無い側は null で返る
	assert.Equal(t, "null", string(logs[2].Before))
	assert.Equal(t, "null", string(logs[0].After))

	var before dto.ProductDTO
	require.NoError(t, json.Unmarshal(logs[0].Before, &before))
	assert.Equal(t, "Phone X2", before.Name)

	rec = s.do(t, http.MethodGet, "/products/26/history?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.AuditLogDTO](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/products/26/history?limit=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_DBFailureLogsCause(t *testing.T) {
	log := logger.NewWithOutput(io.Discard, "info", "json")
	hook := logtest.NewLocal(log)
	s := newTestServerWithLogger(t, "", log)

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := s.do(t, http.MethodGet, "/products/3", nil, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decode[handler.StandardError](t, rec)
	assert.Equal(t, "db error", e.Message)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Data, logrus.ErrorKey)
}

func TestProducts_History_RecordsActor(t *testing.T) {
	secret := "test-secret"
	s := newTestServer(t, secret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"role": middleware.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/products", newProductBody(), "Bearer "+signed)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/products/26/history", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/products/26/history", nil, "Bearer "+signed)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]dto.AuditLogDTO](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(42), logs[0].ActorUserID)
}
