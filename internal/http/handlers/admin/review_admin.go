package admin

import (
	"errors"
	"strconv"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/repository"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminReviews 后台评价列表
func (h *Handler) GetAdminReviews(c *gin.Context) {
	page, pageSize := normalizePagination(c)

	filter := repository.ReviewListFilter{
		Page:     page,
		PageSize: pageSize,
		WithUser: true,
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid product_id", err)
			return
		}
		filter.ProductID = uint(id)
	}
	if raw := c.Query("min_rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid min_rating", err)
			return
		}
		filter.MinRating = rating
	}

	reviews, total, err := h.ReviewService.ListAll(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load reviews", err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// DeleteAdminReview 后台删除任意评价
func (h *Handler) DeleteAdminReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(currentOperatorID(c), true, id); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "review not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete review", err)
		return
	}

	requestLog(c).Infow("admin_review_deleted",
		"operator_user_id", currentOperatorID(c),
		"review_id", id,
	)
	response.Success(c, gin.H{"deleted": true})
}
