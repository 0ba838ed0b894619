package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gift-shop/models"
	"gift-shop/repositories"
	"gift-shop/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewCartStore(repositories.NewMemoryCartRepository())
	ctrl := NewCartController(store)

	router := gin.New()
	cart := router.Group("/cart")
	{
		cart.GET("", ctrl.GetCart)
		cart.DELETE("", ctrl.ClearCart)
		cart.GET("/line", ctrl.GetLine)
		cart.POST("/items", ctrl.AddItem)
		cart.PATCH("/items/:itemId", ctrl.UpdateItem)
		cart.DELETE("/items/:itemId", ctrl.RemoveItem)
		cart.POST("/items/:itemId/increment", ctrl.IncrementItem)
		cart.POST("/items/:itemId/decrement", ctrl.DecrementItem)
	}
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func addItemBody(productID string, quantity, maxQuantity int, variants string) string {
	return fmt.Sprintf(`{
		"product": {"_id": %q, "name": "Gift", "basePrice": 1500, "minQuantity": 1, "maxQuantity": %d},
		"quantity": %d,
		"variants": %s
	}`, productID, maxQuantity, quantity, variants)
}

type cartResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items      []models.CartLine `json:"items"`
		TotalCount int               `json:"totalCount"`
		Subtotal   float64           `json:"subtotal"`
	} `json:"data"`
}

func getCart(t *testing.T, router *gin.Engine) cartResponse {
	t.Helper()
	w := doJSON(router, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAddItemEndpointMerges(t *testing.T) {
	router := newCartRouter(t)

	w := doJSON(router, http.MethodPost, "/cart/items", addItemBody("p1", 2, 4, `{"color":"Black"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/cart/items", addItemBody("p1", 3, 4, `{"color":"Black"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	cart := getCart(t, router)
	require.Len(t, cart.Data.Items, 1)
	assert.Equal(t, 4, cart.Data.Items[0].Quantity)
	assert.Equal(t, 4, cart.Data.TotalCount)
	assert.Equal(t, 4*1500.0, cart.Data.Subtotal)
}

func TestAddItemEndpointRejectsMissingProduct(t *testing.T) {
	router := newCartRouter(t)

	w := doJSON(router, http.MethodPost, "/cart/items", `{"quantity": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncrementDecrementEndpoints(t *testing.T) {
	router := newCartRouter(t)
	doJSON(router, http.MethodPost, "/cart/items", addItemBody("p1", 1, 4, `{}`))

	itemID := getCart(t, router).Data.Items[0].CartItemID

	doJSON(router, http.MethodPost, "/cart/items/"+itemID+"/increment", "")
	assert.Equal(t, 2, getCart(t, router).Data.Items[0].Quantity)

	doJSON(router, http.MethodPost, "/cart/items/"+itemID+"/decrement", "")
	doJSON(router, http.MethodPost, "/cart/items/"+itemID+"/decrement", "")
	assert.Empty(t, getCart(t, router).Data.Items)
}

func TestUpdateItemEndpointClamps(t *testing.T) {
	router := newCartRouter(t)
	doJSON(router, http.MethodPost, "/cart/items", addItemBody("p1", 1, 4, `{}`))
	itemID := getCart(t, router).Data.Items[0].CartItemID

	doJSON(router, http.MethodPatch, "/cart/items/"+itemID, `{"quantity": 99}`)
	assert.Equal(t, 4, getCart(t, router).Data.Items[0].Quantity)
}

func TestRemoveAndClearEndpoints(t *testing.T) {
	router := newCartRouter(t)
	doJSON(router, http.MethodPost, "/cart/items", addItemBody("p1", 1, 4, `{}`))
	doJSON(router, http.MethodPost, "/cart/items", addItemBody("p2", 1, 4, `{}`))

	itemID := getCart(t, router).Data.Items[0].CartItemID
	doJSON(router, http.MethodDelete, "/cart/items/"+itemID, "")
	assert.Len(t, getCart(t, router).Data.Items, 1)

	doJSON(router, http.MethodDelete, "/cart", "")
	assert.Empty(t, getCart(t, router).Data.Items)
}

func TestGetLineEndpoint(t *testing.T) {
	router := newCartRouter(t)
	doJSON(router, http.MethodPost, "/cart/items", addItemBody("p1", 2, 4, `{"color":"Black"}`))

	w := doJSON(router, http.MethodGet, "/cart/line?productId=p1&color=Black", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/cart/line?productId=p1&color=White", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/cart/line", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
