package public

import (
	"strconv"

	"github.com/lankashop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetWishlist 当前用户收藏列表
func (h *Handler) GetWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.WishlistService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load wishlist", err)
		return
	}
	response.Success(c, gin.H{
		"items": items,
		"count": len(items),
	})
}

// ToggleWishlist 收藏/取消收藏商品
func (h *Handler) ToggleWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	added, err := h.WishlistService.Toggle(uid, uint(productID))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to update wishlist")
		return
	}
	requestLog(c).Infow("wishlist_toggled",
		"user_id", uid,
		"product_id", productID,
		"added", added,
	)
	response.Success(c, gin.H{"added": added})
}
