package batches

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"corescan-portal/core/share/mocks"
	"corescan-portal/feature/batches/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, *Service) {
	app := fiber.New()
	client := new(mocks.Client)
	svc := setupService(t, client)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, client, svc
}

func TestHandleCreateAndGetBatch(t *testing.T) {
	app, _, _ := setupTestApp(t)

	payload := `{"hole_id":"DDH-001","machine":"OREX-01","operator_name":"Ana","depth_from":0,"depth_to":100.5}`
	req := httptest.NewRequest("POST", "/batches/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var created models.Batch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)

	req = httptest.NewRequest("GET", "/batches/1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got models.Batch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "DDH-001", got.HoleID)
}

func TestHandleCreateBatch_Invalid(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/batches/", strings.NewReader(`{"operator_name":"Ana"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleGetBatch_NotFound(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/batches/99", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleListBatches_StatusFilter(t *testing.T) {
	app, _, svc := setupTestApp(t)

	a := sampleBatch("DDH-001", "OREX-01", models.StatusPending)
	require.NoError(t, svc.store.Create(&a))
	b := sampleBatch("DDH-002", "OREX-01", models.StatusValidated)
	require.NoError(t, svc.store.Create(&b))

	req := httptest.NewRequest("GET", "/batches/?status=validated", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var batches []models.Batch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batches))
	if assert.Len(t, batches, 1) {
		assert.Equal(t, "DDH-002", batches[0].HoleID)
	}
}

func TestHandleDashboard(t *testing.T) {
	app, _, svc := setupTestApp(t)

	a := sampleBatch("DDH-001", "OREX-01", models.StatusPending)
	require.NoError(t, svc.store.Create(&a))

	req := httptest.NewRequest("GET", "/batches/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["total_batches"])
	assert.Equal(t, float64(1), body["pending"])
}

func TestHandleValidateBatch(t *testing.T) {
	app, client, svc := setupTestApp(t)

	client.On("BucketExists", mock.Anything, "pond").Return(true, nil)
	client.On("ListObjects", mock.Anything, "pond", mock.Anything).
		Return(oChan("incoming/Orexplore/DDH-001/batch-100.5/"))
	client.On("GetObject", mock.Anything, "pond", mock.Anything, mock.Anything).
		Return(markerBody("from_depth: 0.0\nto_depth: 100.5\nmachine: OREX-01\n"), nil)

	batch := sampleBatch("DDH-001", "OREX-01", models.StatusPending)
	require.NoError(t, svc.store.Create(&batch))

	req := httptest.NewRequest("POST", "/batches/1/validate", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["has_discrepancies"])
}

func TestHandleCacheEndpoints(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/batches/cache", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "stats")
	assert.Contains(t, body, "share")

	req = httptest.NewRequest("DELETE", "/batches/cache", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleDeleteBatch(t *testing.T) {
	app, _, svc := setupTestApp(t)

	batch := sampleBatch("DDH-001", "OREX-01", models.StatusPending)
	require.NoError(t, svc.store.Create(&batch))

	req := httptest.NewRequest("DELETE", "/batches/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/batches/1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
