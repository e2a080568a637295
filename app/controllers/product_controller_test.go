package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/roastery/app/controllers"
	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/repositories"
	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/router"
	"github.com/shashiranjanraj/roastery/pkg/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message json.RawMessage `json:"message"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	disk := storage.NewLocalDisk(t.TempDir(), "/storage")
	assets := storage.NewAssets(disk, "local", storage.AssetOptions{
		MaxBytes:    5 << 20,
		AllowedMIME: []string{"image/png", "image/jpg", "image/jpeg"},
	})

	svc := services.NewProductService(repositories.NewProductRepositoryWith(db), assets)
	pc := controllers.NewProductController(svc)

	r := router.New()
	r.Post("/api/create-product", "products.create", pc.Create)
	r.Get("/api/productlist", "products.list", pc.List)
	r.Get("/api/product/{id}", "products.show", pc.Get)
	r.Put("/api/product-update/{id}", "products.update", pc.Update)
	r.Delete("/api/product-delete/{id}", "products.delete", pc.Delete)
	r.Patch("/api/product-restore/{id}", "products.restore", pc.Restore)
	return r.Handler()
}

// productForm builds a multipart body with the given metadata and one PNG
// image per name in images.
func productForm(t *testing.T, fields map[string]string, images ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, val := range fields {
		require.NoError(t, w.WriteField(key, val))
	}

	for _, name := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("png bytes for " + name))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"name":        "Monsoon Malabar",
		"description": "Heavy body, low acidity.",
		"price":       "649",
		"stock":       "20",
		"weight":      "250g",
		"type":        "bean",
	}
}

func do(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func createProduct(t *testing.T, h http.Handler) models.Product {
	t.Helper()
	body, ct := productForm(t, validFields(), "a.png")
	rec, env := do(t, h, http.MethodPost, "/api/create-product", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestCreateProductValidationEnvelope(t *testing.T) {
	h := newTestHandler(t)

	body, ct := productForm(t, map[string]string{"weight": "2kg"})
	rec, env := do(t, h, http.MethodPost, "/api/create-product", body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusBadRequest, env.Status)

	// Validation failures arrive as a list of messages.
	var messages []string
	require.NoError(t, json.Unmarshal(env.Message, &messages))
	assert.GreaterOrEqual(t, len(messages), 4)
}

func TestCreateAndFetchProduct(t *testing.T) {
	h := newTestHandler(t)
	p := createProduct(t, h)

	rec, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/product/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var got models.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Monsoon Malabar", got.Name)
}

func TestFetchUnknownProductIs404(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodGet, "/api/product/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestDeleteHidesAndRestoreRevives(t *testing.T) {
	h := newTestHandler(t)
	p := createProduct(t, h)

	rec, _ := do(t, h, http.MethodDelete, fmt.Sprintf("/api/product-delete/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, fmt.Sprintf("/api/product/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPatch, fmt.Sprintf("/api/product-restore/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, fmt.Sprintf("/api/product/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestoreLiveProductIs400(t *testing.T) {
	h := newTestHandler(t)
	p := createProduct(t, h)

	rec, env := do(t, h, http.MethodPatch, fmt.Sprintf("/api/product-restore/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestListEnvelopeShape(t *testing.T) {
	h := newTestHandler(t)
	createProduct(t, h)
	createProduct(t, h)

	rec, env := do(t, h, http.MethodGet, "/api/productlist?page=1&limit=1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Items      []models.Product `json:"items"`
		Total      int64            `json:"total"`
		Page       int              `json:"page"`
		Limit      int              `json:"limit"`
		TotalPages int              `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))

	assert.Len(t, payload.Items, 1)
	assert.Equal(t, int64(2), payload.Total)
	assert.Equal(t, 2, payload.TotalPages)
}
