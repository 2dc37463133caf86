package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-recipe-service/utils"
)

func (ctrl *Controller) UploadPhoto(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to get file from form data")
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	file, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to open uploaded file")
		utils.JSON400(c, "Failed to read file")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to read uploaded file")
		utils.JSON400(c, "Failed to read file")
		return
	}

	photo, err := ctrl.Provider.Photo.Store(ctx, raw, fileHeader.Filename, contentType)
	if err != nil {
		ctrl.respondError(c, "Photo", err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Photo] Stored photo %d as %s (%d bytes)",
		photo.ID, photo.Filename, photo.FileSize)
	utils.JSON200(c, gin.H{
		"id":       photo.ID,
		"filename": photo.Filename,
		"message":  "Photo uploaded",
	})
}

func (ctrl *Controller) GetPhoto(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	blob, err := ctrl.Provider.Photo.Get(ctx, id)
	if err != nil {
		ctrl.respondError(c, "Photo", err)
		return
	}
	c.Data(http.StatusOK, blob.Photo.ContentType, blob.Data)
}

func (ctrl *Controller) DeletePhoto(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.Provider.Photo.Delete(ctx, id); err != nil {
		ctrl.respondError(c, "Photo", err)
		return
	}
	utils.JSON200(c, gin.H{"message": "Photo deleted"})
}
