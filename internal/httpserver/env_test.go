package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openmart/shop_backend/internal/hash"
	"github.com/openmart/shop_backend/internal/imagehost"
	"github.com/openmart/shop_backend/internal/models"
	"github.com/openmart/shop_backend/internal/mykafka"
	"github.com/openmart/shop_backend/internal/repo"
	"github.com/openmart/shop_backend/internal/service/auth"
	"github.com/openmart/shop_backend/internal/service/catalog"
	"github.com/openmart/shop_backend/internal/service/token"
)

type fakeHost struct {
	uploads int
	deleted []string
}

func (f *fakeHost) Upload(_ context.Context, folder string, _ imagehost.File) (string, error) {
	f.uploads++
	return fmt.Sprintf("http://cdn.test/bucket/%s/img-%d", folder, f.uploads), nil
}

func (f *fakeHost) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type testEnv struct {
	E       *echo.Echo
	DB      *gorm.DB
	Auth    *AuthHTTP
	Product *ProductHTTP
	Host    *fakeHost
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Admin{}, &models.Product{}, &models.ProductImage{}))

	store := &repo.GormRepo{DB: db}
	tokenSvc := &token.Service{Repo: store, JWTSecret: []byte("access"), RefreshSecret: []byte("refresh")}
	authSvc := &auth.Service{
		Repo:        store,
		Tokens:      tokenSvc,
		UserScheme:  hash.Bcrypt{},
		AdminScheme: hash.Bcrypt{},
		Producer:    &mykafka.Producer{},
	}
	host := &fakeHost{}
	catalogSvc := &catalog.Service{
		Repo:     store,
		Host:     host,
		Producer: &mykafka.Producer{},
	}

	return &testEnv{
		E:       echo.New(),
		DB:      db,
		Auth:    &AuthHTTP{Svc: authSvc, Tokens: tokenSvc},
		Product: &ProductHTTP{Svc: catalogSvc},
		Host:    host,
	}
}

func (env *testEnv) doJSON(t *testing.T, method, path string, payload any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// doMultipart builds a multipart form with the given string fields and one
// file part per entry of files, keyed "images".
func (env *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, files []string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range files {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func httpErr(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}
