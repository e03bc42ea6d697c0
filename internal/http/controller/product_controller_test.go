package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apphttp "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/repository/memory"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRouter wires the full HTTP surface over the in-memory repository.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewProductRepository()
	productService := service.NewProductService(repo, nil, nil)

	router := gin.New()
	return apphttp.InitRouter(router, controller.New(), controller.NewProductController(productService))
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func productBody(name string, stock int) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"description":   "A dimmable LED desk lamp",
		"price":         map[string]interface{}{"amount": 19.99, "currency": "USD"},
		"stockQuantity": stock,
	}
}

func createProduct(t *testing.T, router *gin.Engine, name string, stock int) map[string]interface{} {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/products", productBody(name, stock))
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeObject(t, w)
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var response []interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func names(list []interface{}) []string {
	result := make([]string, 0, len(list))
	for _, item := range list {
		result = append(result, item.(map[string]interface{})["name"].(string))
	}
	return result
}

func TestCreateProduct_API(t *testing.T) {
	router := setupRouter(t)

	w := performRequest(router, http.MethodPost, "/products", productBody("Desk Lamp", 15))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/products/1", w.Header().Get("Location"))

	response := decodeObject(t, w)
	assert.Equal(t, float64(1), response["id"])
	assert.Equal(t, "Desk Lamp", response["name"])
	assert.Equal(t, "A dimmable LED desk lamp", response["description"])
	assert.Equal(t, float64(15), response["stockQuantity"])
	assert.Equal(t, true, response["isActive"])
	assert.Equal(t, true, response["isInStock"])
	assert.Equal(t, false, response["isLowStock"])
	assert.Equal(t, false, response["isOutOfStock"])
	assert.NotEmpty(t, response["createdAt"])
	assert.Nil(t, response["updatedAt"])

	price := response["price"].(map[string]interface{})
	assert.Equal(t, "19.99", price["amount"])
	assert.Equal(t, "USD", price["currency"])
}

func TestCreateProduct_API_Validation(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing name",
			body: map[string]interface{}{
				"description":   "A dimmable LED desk lamp",
				"price":         map[string]interface{}{"amount": 19.99, "currency": "USD"},
				"stockQuantity": 15,
			},
		},
		{
			name: "blank name",
			body: productBody("   ", 15),
		},
		{
			name: "zero price",
			body: map[string]interface{}{
				"name":          "Desk Lamp",
				"description":   "A dimmable LED desk lamp",
				"price":         map[string]interface{}{"amount": 0, "currency": "USD"},
				"stockQuantity": 15,
			},
		},
		{
			name: "missing currency",
			body: map[string]interface{}{
				"name":          "Desk Lamp",
				"description":   "A dimmable LED desk lamp",
				"price":         map[string]interface{}{"amount": 19.99},
				"stockQuantity": 15,
			},
		},
		{
			name: "negative stock",
			body: productBody("Desk Lamp", -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/products", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			response := decodeObject(t, w)
			assert.Equal(t, "validation_error", response["error"])
			assert.NotEmpty(t, response["message"])
		})
	}
}

func TestCreateProduct_API_MalformedJSON(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeObject(t, w)
	assert.Equal(t, "validation_error", response["error"])
}

func TestGetProduct_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)

	t.Run("existing product", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, float64(1), response["id"])
		assert.Equal(t, "Desk Lamp", response["name"])
	})

	t.Run("unknown product", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "not_found", response["error"])
	})

	t.Run("malformed id", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("non-positive id", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/0", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListProducts_API(t *testing.T) {
	router := setupRouter(t)

	t.Run("empty catalog serializes as an empty array", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("products come back in insertion order", func(t *testing.T) {
		createProduct(t, router, "Desk Lamp", 15)
		createProduct(t, router, "Notebook", 3)
		createProduct(t, router, "Pencil", 0)

		w := performRequest(router, http.MethodGet, "/products", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		list := decodeList(t, w)
		assert.Equal(t, []string{"Desk Lamp", "Notebook", "Pencil"}, names(list))
	})
}

func TestListActiveProducts_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)
	createProduct(t, router, "Notebook", 3)

	w := performRequest(router, http.MethodPost, "/products/2/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/products/active", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	assert.Equal(t, []string{"Desk Lamp"}, names(list))
}

func TestListLowStockProducts_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)
	createProduct(t, router, "Notebook", 10)
	createProduct(t, router, "Pencil", 0)

	t.Run("default threshold includes exhausted products", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/low-stock", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		list := decodeList(t, w)
		assert.Equal(t, []string{"Notebook", "Pencil"}, names(list))
	})

	t.Run("explicit threshold", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/low-stock?threshold=5", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		list := decodeList(t, w)
		assert.Equal(t, []string{"Pencil"}, names(list))
	})

	t.Run("negative threshold is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/low-stock?threshold=-1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("malformed threshold is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/low-stock?threshold=ten", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSearchProducts_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)
	createProduct(t, router, "Floor Lamp", 5)
	createProduct(t, router, "Notebook", 3)

	w := performRequest(router, http.MethodPost, "/products/2/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("matches case-insensitively among active products", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/search?name=LAMP", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		list := decodeList(t, w)
		assert.Equal(t, []string{"Desk Lamp"}, names(list))
	})

	t.Run("no matches", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/search?name=plasma", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("empty search term is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/search?name=", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "validation_error", response["error"])
		assert.Equal(t, "name query parameter is required", response["message"])
	})

	t.Run("blank search term is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/products/search?name=%20%20", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateProduct_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)

	t.Run("successful update", func(t *testing.T) {
		body := map[string]interface{}{
			"name":        "Desk Lamp Pro",
			"description": "A brighter dimmable LED desk lamp",
			"price":       map[string]interface{}{"amount": 24.99, "currency": "USD"},
		}
		w := performRequest(router, http.MethodPut, "/products/1", body)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "Desk Lamp Pro", response["name"])
		assert.NotNil(t, response["updatedAt"])

		price := response["price"].(map[string]interface{})
		assert.Equal(t, "24.99", price["amount"])
	})

	t.Run("validation failure", func(t *testing.T) {
		body := map[string]interface{}{
			"name":        "",
			"description": "A brighter dimmable LED desk lamp",
			"price":       map[string]interface{}{"amount": 24.99, "currency": "USD"},
		}
		w := performRequest(router, http.MethodPut, "/products/1", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("unknown product", func(t *testing.T) {
		body := map[string]interface{}{
			"name":        "Desk Lamp Pro",
			"description": "A brighter dimmable LED desk lamp",
			"price":       map[string]interface{}{"amount": 24.99, "currency": "USD"},
		}
		w := performRequest(router, http.MethodPut, "/products/999", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "not_found", response["error"])
	})
}

func TestUpdateStock_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)

	t.Run("selling out flips the stock flags", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/products/1/stock", map[string]interface{}{"stockQuantity": 0})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, float64(0), response["stockQuantity"])
		assert.Equal(t, false, response["isInStock"])
		assert.Equal(t, false, response["isLowStock"])
		assert.Equal(t, true, response["isOutOfStock"])
	})

	t.Run("restocking into the low range", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/products/1/stock", map[string]interface{}{"stockQuantity": 3})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, float64(3), response["stockQuantity"])
		assert.Equal(t, true, response["isInStock"])
		assert.Equal(t, true, response["isLowStock"])
		assert.Equal(t, false, response["isOutOfStock"])
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/products/1/stock", map[string]interface{}{"stockQuantity": -1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("unknown product", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/products/999/stock", map[string]interface{}{"stockQuantity": 5})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "not_found", response["error"])
	})
}

func TestActivateDeactivateProduct_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)

	t.Run("deactivate hides the product", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/products/1/deactivate", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, false, response["isActive"])
		assert.Equal(t, false, response["isInStock"])
	})

	t.Run("deactivating twice is harmless", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/products/1/deactivate", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, false, response["isActive"])
	})

	t.Run("activate brings it back", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/products/1/activate", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, true, response["isActive"])
		assert.Equal(t, true, response["isInStock"])
	})

	t.Run("unknown product", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/products/999/activate", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "not_found", response["error"])
	})
}

func TestDeleteProduct_API(t *testing.T) {
	router := setupRouter(t)
	createProduct(t, router, "Desk Lamp", 15)

	t.Run("successful delete answers with no content", func(t *testing.T) {
		w := performRequest(router, http.MethodDelete, "/products/1", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		w = performRequest(router, http.MethodGet, "/products/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deleting the same product again is the caller's mistake", func(t *testing.T) {
		w := performRequest(router, http.MethodDelete, "/products/1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeObject(t, w)
		assert.Equal(t, "not_found", response["error"])
	})

	t.Run("identities are not reused after deletion", func(t *testing.T) {
		created := createProduct(t, router, "Notebook", 3)
		assert.Equal(t, float64(2), created["id"])
	})
}

func TestProductLifecycle_API(t *testing.T) {
	router := setupRouter(t)

	created := createProduct(t, router, "Desk Lamp", 12)
	id := int64(created["id"].(float64))

	w := performRequest(router, http.MethodPatch, fmt.Sprintf("/products/%d/stock", id), map[string]interface{}{"stockQuantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/products/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Desk Lamp"}, names(decodeList(t, w)))

	w = performRequest(router, http.MethodPost, fmt.Sprintf("/products/%d/deactivate", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/products/search?name=lamp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = performRequest(router, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
