package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewish/tracker/internal/middleware"
	"github.com/pricewish/tracker/internal/registry"
	"github.com/pricewish/tracker/internal/types"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seq := 0
	reg := registry.New(
		registry.WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }),
		registry.WithIDGenerator(func() string { seq++; return fmt.Sprintf("item-%d", seq) }),
	)
	Init(reg, zerolog.Nop())

	router := gin.New()
	router.GET("/health", HealthCheck)

	authed := router.Group("/")
	authed.Use(middleware.RequireSession())
	{
		authed.GET("/items", ListItems)
		authed.GET("/items/search", SearchItems)
		authed.GET("/items/:id", GetItem)
		authed.POST("/items", CreateItem)
		authed.PATCH("/items/:id", PatchItem)
		authed.DELETE("/items/:id", DeleteItem)
		authed.POST("/items/:id/simulate-drop", SimulateDrop)
		authed.POST("/prices/refresh", RefreshPrices)
		authed.POST("/alerts/email", SendEmailAlert)
	}
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createWidget(t *testing.T, router *gin.Engine, session string) types.Item {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/items", session, types.CreatePayload{
		Title:        "Widget",
		UserCountry:  types.CountryGB,
		Links:        []string{},
		TrackingRule: types.BelowAbsolute(types.CurrencyGBP, 100),
		SkuKey:       "widget|GB",
		InputType:    types.InputTypeName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item types.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	return item
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.Version)
}

func TestMissingSessionRejected(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/items", "", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-Session-Id")
}

func TestCreateAndListItems(t *testing.T) {
	router := setupRouter(t)

	item := createWidget(t, router, "s1")
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, types.StatusTracking, item.Status)
	require.NotNil(t, item.CurrentPrice)

	w := doRequest(t, router, http.MethodGet, "/items", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []types.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)

	// Another session sees an empty list
	w = doRequest(t, router, http.MethodGet, "/items", "s2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCreateItemValidation(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"Missing title", map[string]any{
			"user_country": "GB", "input_type": "name",
			"tracking_rule": map[string]any{"type": "percentage_below_avg", "value": 10},
		}},
		{"Bad country", map[string]any{
			"title": "X", "user_country": "FR", "input_type": "name",
			"tracking_rule": map[string]any{"type": "percentage_below_avg", "value": 10},
		}},
		{"Bad input type", map[string]any{
			"title": "X", "user_country": "GB", "input_type": "barcode",
			"tracking_rule": map[string]any{"type": "percentage_below_avg", "value": 10},
		}},
		{"URL mode without url", map[string]any{
			"title": "X", "user_country": "GB", "input_type": "url",
			"tracking_rule": map[string]any{"type": "percentage_below_avg", "value": 10},
		}},
		{"Unknown rule type", map[string]any{
			"title": "X", "user_country": "GB", "input_type": "name",
			"tracking_rule": map[string]any{"type": "above_absolute", "value": 10},
		}},
		{"Absolute rule without currency", map[string]any{
			"title": "X", "user_country": "GB", "input_type": "name",
			"tracking_rule": map[string]any{"type": "below_absolute", "value": 10},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/items", "s1", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestGetPatchDeleteItem(t *testing.T) {
	router := setupRouter(t)
	item := createWidget(t, router, "s1")

	w := doRequest(t, router, http.MethodGet, "/items/"+item.ID, "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPatch, "/items/"+item.ID, "s1", map[string]any{
		"tracking_rule": map[string]any{"type": "percentage_below_avg", "value": 20},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var patched types.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, types.PercentageBelowAvg(20), patched.TrackingRule)

	w = doRequest(t, router, http.MethodDelete, "/items/"+item.ID, "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/items/"+item.ID, "s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemNotVisibleAcrossSessions(t *testing.T) {
	router := setupRouter(t)
	item := createWidget(t, router, "s1")

	w := doRequest(t, router, http.MethodGet, "/items/"+item.ID, "s2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/items/"+item.ID, "s2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshPricesPartialPatchSet(t *testing.T) {
	router := setupRouter(t)
	item := createWidget(t, router, "s1")

	w := doRequest(t, router, http.MethodPost, "/prices/refresh", "s1", map[string]any{
		"ids": []string{item.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RefreshPricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, updated := range resp.Updated {
		assert.Equal(t, item.ID, updated.ID)
	}
}

func TestRefreshPricesChunkedBodyScopesIDs(t *testing.T) {
	router := setupRouter(t)
	first := createWidget(t, router, "s1")
	createWidget(t, router, "s1")

	body, err := json.Marshal(map[string]any{"ids": []string{first.ID}})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "/prices/refresh", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, "s1")
	// Chunked transfer: no declared length, body still present
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RefreshPricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, updated := range resp.Updated {
		assert.Equal(t, first.ID, updated.ID, "scoped refresh must not touch other items")
	}
}

func TestRefreshPricesEmptyBody(t *testing.T) {
	router := setupRouter(t)

	req, err := http.NewRequest(http.MethodPost, "/prices/refresh", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.SessionHeader, "s1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSimulateDropEndpoint(t *testing.T) {
	router := setupRouter(t)
	item := createWidget(t, router, "s1")

	w := doRequest(t, router, http.MethodPost, "/items/"+item.ID+"/simulate-drop", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dropped types.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dropped))
	require.NotNil(t, dropped.CurrentPrice)
	assert.Equal(t, 95.0, *dropped.CurrentPrice)
	assert.Equal(t, types.StatusAlerted, dropped.Status)

	w = doRequest(t, router, http.MethodPost, "/items/missing/simulate-drop", "s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	router := setupRouter(t)
	createWidget(t, router, "s1")

	w := doRequest(t, router, http.MethodGet, "/items/search?q=wid", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")

	w = doRequest(t, router, http.MethodGet, "/items/search?q=x", "s1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "single-char query rejected")
}

func TestEmailAlertEndpoint(t *testing.T) {
	router := setupRouter(t)
	item := createWidget(t, router, "s1")

	w := doRequest(t, router, http.MethodPost, "/alerts/email", "s1", map[string]any{
		"item_id": item.ID, "email": "user@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/alerts/email", "s1", map[string]any{
		"item_id": item.ID, "email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/alerts/email", "s1", map[string]any{
		"item_id": "missing", "email": "user@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
