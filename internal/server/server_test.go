package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/inventra/internal/server"
	"github.com/rsharma-dev/inventra/pkg/event"
	"github.com/rsharma-dev/inventra/pkg/ws"
)

type api struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	event.Flush()
	t.Cleanup(event.Flush)

	hub := ws.NewHub()
	go hub.Run()

	r, recorder, err := server.NewRouter(server.MemoryRepos(), hub)
	require.NoError(t, err)
	t.Cleanup(recorder.Close)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return &api{t: t, srv: srv}
}

func (a *api) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	return resp, decoded
}

// doList is do for endpoints whose success body is a JSON array.
func (a *api) doList(method, path string) (*http.Response, []map[string]interface{}) {
	a.t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, nil)
	require.NoError(a.t, err)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)

	var decoded []map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	return resp, decoded
}

func (a *api) register(name, email string) {
	a.t.Helper()
	resp, body := a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	a.token = body["token"].(string)
}

func (a *api) createProduct(name string, price float64, stock int) string {
	a.t.Helper()
	resp, body := a.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name":        name,
		"description": name + " description",
		"category":    "Electronics",
		"price":       price,
		"stock":       stock,
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	resp, body := a.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newAPI(t)
	resp, body := a.do(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, no token", body["message"])
}

func TestProductValidationErrors(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")

	resp, body := a.do(http.MethodPost, "/api/products", map[string]interface{}{
		"category": "Gadgets", // not in the enum
		"price":    -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "expected an errors map, got %v", body)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "category")
	assert.Contains(t, errs, "price")
}

func TestProductListSortDirection(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")
	a.createProduct("Pricey", 100.00, 5)
	a.createProduct("Cheap", 1.00, 5)
	a.createProduct("Middling", 50.00, 5)

	// An explicit sortBy is ascending unless order=desc is asked for.
	resp, products := a.doList(http.MethodGet, "/api/products?sortBy=price")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, products, 3)
	assert.Equal(t, "Cheap", products[0]["name"])
	assert.Equal(t, "Middling", products[1]["name"])
	assert.Equal(t, "Pricey", products[2]["name"])

	resp, products = a.doList(http.MethodGet, "/api/products?sortBy=price&order=desc")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, products, 3)
	assert.Equal(t, "Pricey", products[0]["name"])
	assert.Equal(t, "Cheap", products[2]["name"])
}

func TestOrderListSortedByTotal(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")
	id := a.createProduct("Headphones", 100.00, 50)

	for _, qty := range []int{3, 1, 2} {
		resp, _ := a.do(http.MethodPost, "/api/orders", map[string]interface{}{
			"customerName":    "Asha Verma",
			"customerEmail":   "asha@example.com",
			"shippingAddress": "42 MG Road",
			"items": []map[string]interface{}{
				{"productId": id, "quantity": qty},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, orders := a.doList(http.MethodGet, "/api/orders?sortBy=totalAmount")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, orders, 3)
	assert.Equal(t, float64(100), orders[0]["totalAmount"])
	assert.Equal(t, float64(200), orders[1]["totalAmount"])
	assert.Equal(t, float64(300), orders[2]["totalAmount"])

	resp, orders = a.doList(http.MethodGet, "/api/orders?sortBy=totalAmount&order=desc")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, orders, 3)
	assert.Equal(t, float64(300), orders[0]["totalAmount"])
}

func TestOrderPlacementInsufficientStock(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")
	id := a.createProduct("Laptop Pro", 999.99, 2)

	resp, body := a.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"customerName":    "Asha Verma",
		"customerEmail":   "asha@example.com",
		"shippingAddress": "42 MG Road",
		"items": []map[string]interface{}{
			{"productId": id, "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock for Laptop Pro. Available: 2", body["message"])

	// Stock is untouched.
	resp, product := a.do(http.MethodGet, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), product["stock"])
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")
	id := a.createProduct("Headphones", 199.99, 25)

	resp, order := a.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"customerName":    "Asha Verma",
		"customerEmail":   "asha@example.com",
		"shippingAddress": "42 MG Road",
		"items": []map[string]interface{}{
			{"productId": id, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", order["status"])
	assert.InDelta(t, 399.98, order["totalAmount"].(float64), 1e-6)
	orderID := order["id"].(string)

	resp, updated := a.do(http.MethodPut, "/api/orders/"+orderID, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "shipped", updated["status"])

	// A value outside the enum is a validation failure.
	resp, body := a.do(http.MethodPut, "/api/orders/"+orderID, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "status")

	resp, body = a.do(http.MethodGet, "/api/orders/"+fmt.Sprintf("%024x", 0), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Order not found", body["message"])
}

func TestUsersRouteIsAdminGated(t *testing.T) {
	a := newAPI(t)
	a.register("Plain User", "user@example.com")

	resp, _ := a.doList(http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestActivityFeedRecordsMutations(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")
	id := a.createProduct("Coffee Beans", 24.99, 50)

	resp, _ := a.do(http.MethodDelete, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The recorder is async; poll until both records land.
	var items []map[string]interface{}
	require.Eventually(t, func() bool {
		var resp *http.Response
		resp, items = a.doList(http.MethodGet, "/api/activity?entityType=product")
		return resp.StatusCode == http.StatusOK && len(items) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "deleted", items[0]["action"], "newest first")
	assert.Equal(t, "created", items[1]["action"])
	assert.Equal(t, "Coffee Beans", items[0]["entityName"])
}

func TestGraphQLQuery(t *testing.T) {
	a := newAPI(t)
	a.register("Tester", "tester@example.com")
	a.createProduct("Laptop Pro", 999.99, 10)
	a.createProduct("Monitor", 299.99, 4)

	resp, body := a.do(http.MethodPost, "/api/graphql", map[string]interface{}{
		"query": `{ products(search: "laptop") { name price stock } }`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	products := data["products"].([]interface{})
	require.Len(t, products, 1)
	first := products[0].(map[string]interface{})
	assert.Equal(t, "Laptop Pro", first["name"])
}
