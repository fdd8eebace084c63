package public

import (
	"strconv"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 提交评价入参
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// CreateReview 提交商品评价
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	review, err := h.ReviewService.Submit(uid, service.SubmitInput{
		ProductID: uint(productID),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "failed to submit review")
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除自己的评价
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid review id", nil)
		return
	}

	if err := h.ReviewService.Delete(uid, false, uint(id)); err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "failed to delete review")
		return
	}
	response.Success(c, nil)
}
