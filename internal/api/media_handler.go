package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/neurofeedback-app/internal/service"
)

// MediaHandler serves presigned URLs for program material.
type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type MaterialUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"` // e.g. "audio/mpeg", "video/mp4"
}

// RequestUploadURL godoc
// @Summary Presigned URL to upload a program's material (creator only)
// @Tags Media
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Param body body MaterialUploadRequest true "Content type"
// @Success 200 {object} service.MaterialURL
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /programs/{programId}/media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	var req MaterialUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	sender, ok := principal(c)
	if !ok {
		return
	}

	material, err := h.mediaService.MaterialUploadURL(c.Request.Context(), sender, programID, req.ContentType)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// GetDownloadURL godoc
// @Summary Presigned URL to download a program's material (creator or enrolled user)
// @Tags Media
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 200 {object} service.MaterialURL
// @Router /programs/{programId}/media/url [get]
func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	user, ok := principal(c)
	if !ok {
		return
	}

	material, err := h.mediaService.MaterialDownloadURL(c.Request.Context(), user, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// DeleteMaterial godoc
// @Summary Remove a program's material (creator only)
// @Tags Media
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 204
// @Router /programs/{programId}/media [delete]
func (h *MediaHandler) DeleteMaterial(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	sender, ok := principal(c)
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMaterial(c.Request.Context(), sender, programID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
