package admin

import (
	"errors"
	"strconv"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/models"
	"github.com/lankashop/storefront/internal/repository"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent int     `json:"discount_percent"`
	Category        string  `json:"category" binding:"required"`
	Stock           int     `json:"stock"`
	ImageURL        string  `json:"image_url"`
	IsFeatured      bool    `json:"is_featured"`
	IsActive        *bool   `json:"is_active"`
}

func (r *ProductRequest) toInput() service.ProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.ProductInput{
		Name:            r.Name,
		Description:     r.Description,
		Price:           models.NewMoneyFromFloat(r.Price),
		OriginalPrice:   models.NewMoneyFromFloat(r.OriginalPrice),
		DiscountPercent: r.DiscountPercent,
		Category:        r.Category,
		Stock:           r.Stock,
		ImageURL:        r.ImageURL,
		IsFeatured:      r.IsFeatured,
		IsActive:        active,
	}
}

// GetAdminProducts 后台商品列表，含下架商品
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := normalizePagination(c)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 后台商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.ProductService.GetDetail(id, false)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}
	response.Success(c, detail)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, response.CodeInternal, "failed to create product", err)
		return
	}

	requestLog(c).Infow("admin_product_created",
		"operator_user_id", currentOperatorID(c),
		"product_id", product.ID,
		"name", product.Name,
	)
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update product", err)
		return
	}

	requestLog(c).Infow("admin_product_updated",
		"operator_user_id", currentOperatorID(c),
		"product_id", product.ID,
	)
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete product", err)
		return
	}

	requestLog(c).Infow("admin_product_deleted",
		"operator_user_id", currentOperatorID(c),
		"product_id", id,
	)
	response.Success(c, gin.H{"deleted": true})
}

// AdjustProductStock 调整商品库存
func (h *Handler) AdjustProductStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	affected, err := h.ProductRepo.AdjustStock(id, req.Delta)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to adjust stock", err)
		return
	}
	if affected == 0 {
		respondError(c, response.CodeBadRequest, "stock adjustment rejected", nil)
		return
	}
	h.CatalogService.Invalidate(c.Request.Context())

	product, err := h.ProductRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}
	requestLog(c).Infow("admin_product_stock_adjusted",
		"operator_user_id", currentOperatorID(c),
		"product_id", id,
		"delta", strconv.Itoa(req.Delta),
	)
	response.Success(c, product)
}
