package admin

import (
	"errors"

	"github.com/lankashop/storefront/internal/http/response"
	"github.com/lankashop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadImage 上传商品图片，返回可公开访问的 URL
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file field required", err)
		return
	}

	publicURL, err := h.UploadService.SaveImage(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			respondError(c, response.CodeBadRequest, "file too large", nil)
		case errors.Is(err, service.ErrUploadTypeInvalid):
			respondError(c, response.CodeBadRequest, "unsupported file type", nil)
		default:
			respondError(c, response.CodeInternal, "failed to store file", err)
		}
		return
	}

	requestLog(c).Infow("admin_image_uploaded",
		"operator_user_id", currentOperatorID(c),
		"filename", file.Filename,
		"url", publicURL,
	)
	response.Success(c, gin.H{"url": publicURL})
}

// DeleteImageRequest 删除上传图片请求
type DeleteImageRequest struct {
	URL string `json:"url" binding:"required"`
}

// DeleteImage 删除已上传的商品图片
func (h *Handler) DeleteImage(c *gin.Context) {
	var req DeleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.UploadService.RemoveImage(req.URL); err != nil {
		respondError(c, response.CodeInternal, "failed to remove file", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
