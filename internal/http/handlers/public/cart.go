package public

import (
	"strconv"

	"github.com/lankashop/storefront/internal/cart"
	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest 调整数量请求，delta 为增量，可为负。
type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CartView 购物车响应
type CartView struct {
	Items []cart.Line  `json:"items"`
	Total models.Money `json:"total"`
	Count int          `json:"count"`
}

func (h *Handler) cartView(store *cart.Store) CartView {
	return CartView{
		Items: store.Items(),
		Total: models.NewMoneyFromDecimal(store.Total()),
		Count: store.Count(),
	}
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	store := h.Carts.Get(c.Request.Context(), h.cartSessionID(c))
	response.Success(c, h.cartView(store))
}

// AddCartItem 加入购物车，同商品累加数量。
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductRepo.GetByID(req.ProductID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}
	if product == nil || !product.IsActive {
		respondError(c, response.CodeNotFound, "product not found", nil)
		return
	}

	store := h.Carts.Get(c.Request.Context(), h.cartSessionID(c))
	store.AddItem(product, req.Quantity)
	response.Success(c, h.cartView(store))
}

// UpdateCartItem 按增量调整商品数量，减到 0 时移除。
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	store := h.Carts.Get(c.Request.Context(), h.cartSessionID(c))
	store.UpdateQuantity(uint(productID), req.Delta)
	response.Success(c, h.cartView(store))
}

// RemoveCartItem 移除商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	store := h.Carts.Get(c.Request.Context(), h.cartSessionID(c))
	store.RemoveItem(uint(productID))
	response.Success(c, h.cartView(store))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	store := h.Carts.Get(c.Request.Context(), h.cartSessionID(c))
	store.Clear()
	response.Success(c, h.cartView(store))
}
