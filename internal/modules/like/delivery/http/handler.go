package http

import (
	"net/http"

	like "anoa.com/chirp/internal/modules/like/service"
	"anoa.com/chirp/pkg/response"
	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	service like.LikeService
}

func NewLikeHandler(service like.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) LikePost(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	post, err := h.service.LikePost(c.Request.Context(), handle, response.GetUserImage(c), c.Param("postId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *LikeHandler) UnlikePost(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	post, err := h.service.UnlikePost(c.Request.Context(), handle, c.Param("postId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
