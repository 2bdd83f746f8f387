package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feature-catalog-be/internal/dto"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/internal/pkg/serverutils"
	"feature-catalog-be/internal/repository/memory"
	"feature-catalog-be/internal/service"
	"feature-catalog-be/pkg/cache"
	"feature-catalog-be/pkg/catalog/cascade"
	"feature-catalog-be/pkg/catalog/coordinator"
	"feature-catalog-be/pkg/catalog/events"
	"feature-catalog-be/pkg/catalog/reference"
	"feature-catalog-be/pkg/filestore"
	"feature-catalog-be/pkg/search"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	factory := memory.NewRepositoryFactory(memory.NewStore())
	log := logger.NewNopLogger()

	files, err := filestore.NewLocalStore(t.TempDir(), 1<<20, nil)
	require.NoError(t, err)

	refs := reference.NewStore(factory, log)
	coord := coordinator.New(factory, refs, files, events.NewBusPublisher(nil, log), log)
	optionCache := cache.NewMemoryCache(time.Minute)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewFeatureRecordController(service.NewFeatureRecordService(coord, search.NewEngine(factory, nil), optionCache)).RegisterRoutes(api)
	NewReferenceController(service.NewReferenceService(refs, cascade.NewResolver(factory), optionCache, log)).RegisterRoutes(api)
	return app
}

type envelope[T any] struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func doJSON[T any](t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope[T]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return send[T](t, app, req)
}

func send[T any](t *testing.T, app *fiber.App, req *http.Request) (int, envelope[T]) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope[T]
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func recordBody(systemName, module, feature string) map[string]interface{} {
	return map[string]interface{}{
		"system_name": systemName,
		"module":      module,
		"feature":     feature,
		"client":      "Acme",
		"source":      "Manual",
		"description": "Catalogued feature",
		"sample_url":  "https://example.com/sample",
	}
}

func TestFeatureRecordController_CRUD(t *testing.T) {
	app := newTestApp(t)

	code, created := doJSON[dto.FeatureRecordResponse](t, app, "POST", "/api/features/v1", recordBody("ERP", "Billing", "Invoice Merge"))
	require.Equal(t, 200, code)
	assert.True(t, created.Success)
	assert.Equal(t, "ERP", created.Data.SystemName)
	assert.True(t, created.Data.SampleIsURL)
	id := created.Data.Id.String()

	code, shown := doJSON[dto.FeatureRecordResponse](t, app, "GET", "/api/features/v1/"+id, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, "Invoice Merge", shown.Data.Feature)

	update := recordBody("ERP", "Invoicing", "Invoice Merge")
	code, updated := doJSON[dto.FeatureRecordResponse](t, app, "PUT", "/api/features/v1/"+id, update)
	require.Equal(t, 200, code)
	assert.Equal(t, "Invoicing", updated.Data.Module)

	code, modules := doJSON[[]string](t, app, "GET", "/api/references/v1/module", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, []string{"Invoicing"}, modules.Data)

	code, deleted := doJSON[dto.DeleteFeatureRecordResponse](t, app, "DELETE", "/api/features/v1/"+id, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, 5, deleted.Data.ReferencesRetired)

	code, missing := doJSON[any](t, app, "GET", "/api/features/v1/"+id, nil)
	assert.Equal(t, 404, code)
	assert.False(t, missing.Success)

	code, _ = doJSON[any](t, app, "GET", "/api/features/v1/not-a-uuid", nil)
	assert.Equal(t, 404, code)
}

func TestFeatureRecordController_ValidationErrors(t *testing.T) {
	app := newTestApp(t)

	body := recordBody("ERP", "", "Invoice Merge")
	delete(body, "sample_url")
	code, res := doJSON[any](t, app, "POST", "/api/features/v1", body)
	assert.Equal(t, 422, code)
	assert.Contains(t, res.Errors, "module")
	assert.Contains(t, res.Errors, "sample")

	code, res = doJSON[any](t, app, "POST", "/api/features/v1/bulk-delete", map[string]interface{}{"ids": []string{}})
	assert.Equal(t, 422, code)
	assert.Contains(t, res.Errors, "ids")

	code, res = doJSON[any](t, app, "GET", "/api/references/v1/planet", nil)
	assert.Equal(t, 422, code)
	assert.Contains(t, res.Errors, "category")
}

func TestFeatureRecordController_MultipartUpload(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range recordBody("ERP", "Billing", "Invoice Merge") {
		if k == "sample_url" {
			continue
		}
		require.NoError(t, w.WriteField(k, v.(string)))
	}
	part, err := w.CreateFormFile("sample_file", "invoice.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/features/v1", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	code, created := send[dto.FeatureRecordResponse](t, app, req)
	require.Equal(t, 200, code)
	require.NotNil(t, created.Data.SampleLocation)
	assert.True(t, strings.HasSuffix(*created.Data.SampleLocation, "_invoice.pdf"))
	assert.False(t, created.Data.SampleIsURL)
	require.NotNil(t, created.Data.SampleMeta)
	assert.Equal(t, int64(8), created.Data.SampleMeta.FileSize)
}

func TestFeatureRecordController_ListSearchCascade(t *testing.T) {
	app := newTestApp(t)

	for _, b := range []map[string]interface{}{
		recordBody("ERP", "Billing", "Invoice Merge"),
		recordBody("ERP", "Stock", "Warehouse Transfer"),
		recordBody("CRM", "Leads", "Lead Scoring"),
	} {
		code, _ := doJSON[any](t, app, "POST", "/api/features/v1", b)
		require.Equal(t, 200, code)
	}

	code, page := doJSON[dto.FeatureRecordPageResponse](t, app, "GET", "/api/features/v1?system_name=ERP&limit=1", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, int64(2), page.Data.Total)
	assert.Len(t, page.Data.Items, 1)

	code, found := doJSON[dto.SearchFeatureRecordsResponse](t, app, "GET", "/api/features/v1/search?q=combine", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, int64(1), found.Data.Total)

	code, stats := doJSON[dto.CatalogStatisticsResponse](t, app, "GET", "/api/features/v1/statistics", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, int64(3), stats.Data.TotalRecords)

	code, modules := doJSON[[]string](t, app, "GET", "/api/references/v1/module/cascade?system_name=ERP", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, []string{"Billing", "Stock"}, modules.Data)

	code, entities := doJSON[[]dto.ReferenceEntityResponse](t, app, "GET", "/api/references/v1/system_name/entities?include_inactive=true", nil)
	require.Equal(t, 200, code)
	assert.Len(t, entities.Data, 2)

	code, purge := doJSON[dto.PurgeInactiveResponse](t, app, "DELETE", "/api/references/v1/system_name/inactive", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, int64(0), purge.Data.Purged)
}
