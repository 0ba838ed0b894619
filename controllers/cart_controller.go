package controllers

import (
	"net/http"

	"gift-shop/models"
	"gift-shop/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	store *services.CartStore
}

func NewCartController(store *services.CartStore) *CartController {
	return &CartController{store: store}
}

type AddItemRequest struct {
	Product         models.Product    `json:"product" binding:"required"`
	Quantity        int               `json:"quantity"`
	Variants        models.Variants   `json:"variants"`
	Personalization map[string]string `json:"personalization"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type cartPayload struct {
	Items      []models.CartLine `json:"items"`
	TotalCount int               `json:"totalCount"`
	Subtotal   float64           `json:"subtotal"`
}

func (ctrl *CartController) payload() cartPayload {
	return cartPayload{
		Items:      ctrl.store.Items(),
		TotalCount: ctrl.store.TotalCount(),
		Subtotal:   ctrl.store.Subtotal(),
	}
}

// GetCart godoc
// @Summary Get the current cart
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved",
		Data:    ctrl.payload(),
	})
}

// AddItem godoc
// @Summary Add a product to the cart
// @Description Merges with an existing line for the same product and variant selection, capped at the line's max quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body controllers.AddItemRequest true "Add Item Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request",
		})
		return
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	line := ctrl.store.AddItem(req.Product, req.Quantity, req.Variants, req.Personalization)
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    line,
	})
}

// UpdateItem godoc
// @Summary Set the quantity of a cart line
// @Description The requested quantity is clamped into the line's bounds
// @Tags Cart
// @Accept json
// @Produce json
// @Param itemId path string true "Cart item ID"
// @Param request body controllers.UpdateItemRequest true "Update Item Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items/{itemId} [patch]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request",
		})
		return
	}

	ctrl.store.SetQuantity(c.Param("itemId"), req.Quantity)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated",
		Data:    ctrl.payload(),
	})
}

// IncrementItem godoc
// @Summary Increment a cart line by one
// @Tags Cart
// @Produce json
// @Param itemId path string true "Cart item ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{itemId}/increment [post]
func (ctrl *CartController) IncrementItem(c *gin.Context) {
	ctrl.store.Increment(c.Param("itemId"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated",
		Data:    ctrl.payload(),
	})
}

// DecrementItem godoc
// @Summary Decrement a cart line by one
// @Description Dropping below the line's minimum removes the line
// @Tags Cart
// @Produce json
// @Param itemId path string true "Cart item ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{itemId}/decrement [post]
func (ctrl *CartController) DecrementItem(c *gin.Context) {
	ctrl.store.Decrement(c.Param("itemId"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated",
		Data:    ctrl.payload(),
	})
}

// RemoveItem godoc
// @Summary Remove a cart line
// @Tags Cart
// @Produce json
// @Param itemId path string true "Cart item ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{itemId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	ctrl.store.RemoveItem(c.Param("itemId"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item removed",
		Data:    ctrl.payload(),
	})
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	ctrl.store.ClearCart()
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart cleared",
		Data:    ctrl.payload(),
	})
}

// GetLine godoc
// @Summary Look up a cart line by product and variant selection
// @Description Query parameters other than productId are treated as variant selections
// @Tags Cart
// @Produce json
// @Param productId query string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/line [get]
func (ctrl *CartController) GetLine(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "productId is required",
		})
		return
	}

	variants := models.Variants{}
	for name, values := range c.Request.URL.Query() {
		if name == "productId" || len(values) == 0 {
			continue
		}
		variants[name] = values[0]
	}

	line := ctrl.store.GetCartItem(productID, variants)
	if line == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "Item not in cart",
		})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart line found",
		Data:    line,
	})
}
