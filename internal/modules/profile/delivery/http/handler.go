package http

import (
	"net/http"

	profileDto "anoa.com/chirp/internal/modules/profile/dto"
	profile "anoa.com/chirp/internal/modules/profile/service"
	"anoa.com/chirp/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service profile.ProfileService
}

func NewProfileHandler(service profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) UpdateDetails(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input profileDto.UpdateDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateDetails(c.Request.Context(), handle, input); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Details updated successfully"})
}

func (h *ProfileHandler) UploadImage(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wrong file type submitted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer file.Close()

	imgURL, err := h.service.UploadImage(c.Request.Context(), handle, profileDto.ImageFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully", "imgUrl": imgURL})
}

func (h *ProfileHandler) GetAuthenticatedUser(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	own, err := h.service.GetAuthenticatedUser(c.Request.Context(), handle)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, own)
}

func (h *ProfileHandler) GetUserDetails(c *gin.Context) {
	public, err := h.service.GetUserDetails(c.Request.Context(), c.Param("handle"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, public)
}
