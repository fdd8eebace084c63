package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/lankashop/storefront/internal/config"
	"github.com/lankashop/storefront/internal/logger"

	"github.com/google/uuid"
)

// UploadService 商品图片上传服务
type UploadService struct {
	cfg *config.Config
}

// NewUploadService 创建上传服务
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveImage 保存商品图片，返回可公开访问的 URL。
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return "", ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !containsFold(s.cfg.Upload.AllowedExtensions, ext) {
			return "", ErrUploadTypeInvalid
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 读文件头识别真实 MIME 类型，不信任扩展名
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 && !containsFold(s.cfg.Upload.AllowedTypes, contentType) {
		return "", ErrUploadTypeInvalid
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	savePath := filepath.Join(s.uploadDir(), filename)
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	logger.Infow("product_image_saved", "filename", filename, "size", file.Size, "content_type", contentType)
	return s.publicURL(filename), nil
}

// RemoveImage 按公开 URL 删除图片，URL 不属于上传目录时忽略。
func (s *UploadService) RemoveImage(publicURL string) error {
	filename := filepath.Base(strings.TrimSpace(publicURL))
	if filename == "" || filename == "." || filename == "/" {
		return nil
	}
	path := filepath.Join(s.uploadDir(), filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	logger.Infow("product_image_removed", "filename", filename)
	return nil
}

func (s *UploadService) uploadDir() string {
	dir := strings.TrimSpace(s.cfg.Upload.Dir)
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

func (s *UploadService) publicURL(filename string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Upload.PublicBaseURL), "/")
	if base == "" {
		base = "/uploads"
	}
	return base + "/" + filename
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
