package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ssis/internal/middleware"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/filestorage"
)

// UploadController serves files from the asset store
type UploadController struct {
	assets filestorage.AssetStore
}

// NewUploadController creates a new UploadController
func NewUploadController(assets filestorage.AssetStore) *UploadController {
	return &UploadController{assets: assets}
}

// ServeFile streams a stored profile image
// @Summary Serve uploaded file
// @Tags uploads
// @Produce octet-stream
// @Param filename path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse "Invalid file name"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /uploads/{filename} [get]
func (c *UploadController) ServeFile(ctx *gin.Context) {
	name := ctx.Param("filename")
	if !filestorage.IsPlainName(name) {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("filename", "Invalid file name."))
		return
	}

	file, err := c.assets.Open(name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	ctx.Header("Cache-Control", "public, max-age=300")
	http.ServeContent(ctx.Writer, ctx.Request, name, time.Time{}, file)
}
