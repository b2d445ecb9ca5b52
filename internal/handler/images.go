package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ObjectStorage is the slice of the storage client the handler needs.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

const maxImageSize = 5 << 20 // 5 MiB

type ImagesHandler struct {
	storage ObjectStorage
	svc     service.ProductService
}

func NewImagesHandler(storage ObjectStorage, svc service.ProductService) *ImagesHandler {
	return &ImagesHandler{storage: storage, svc: svc}
}

// Upload POST /v1/products/:id/images (multipart: file, position)
func (h *ImagesHandler) Upload(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo 'file'"))
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, apierror.New("La imagen supera los 5 MB"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Formato de imagen no soportado"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, err)
		return
	}

	position, _ := strconv.Atoi(c.DefaultPostForm("position", "0"))

	objectPath := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	url, err := h.storage.Upload(c.Request.Context(), objectPath, data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.AddImage(c.Request.Context(), productID, url, position); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url, "position": position})
}
