package public

import (
	"strconv"

	handlershared "github.com/lankashop/storefront/internal/http/handlers/shared"
	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetCatalog 店面目录首屏，带新鲜窗口缓存。
func (h *Handler) GetCatalog(c *gin.Context) {
	force := c.Query("refresh") == "1"
	snapshot, err := h.CatalogService.GetCatalog(c.Request.Context(), force)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to load catalog")
		return
	}
	response.Success(c, snapshot)
}

// ListProducts 商品列表（过滤与分页走数据库）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if pageSize <= 0 {
		pageSize = h.Config.Catalog.PageSize
	}
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Category:     c.Query("category"),
		Search:       c.Query("search"),
		OnlyActive:   true,
		OnlyFeatured: c.Query("featured") == "1",
		OnlyInStock:  c.Query("in_stock") == "1",
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	detail, err := h.ProductService.GetDetail(uint(id), true)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to load product")
		return
	}
	response.Success(c, detail)
}

// ListCategories 在售分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListForProduct(uint(id), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load reviews", err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}
