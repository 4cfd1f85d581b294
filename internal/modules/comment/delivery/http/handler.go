package http

import (
	"net/http"

	commentDto "anoa.com/chirp/internal/modules/comment/dto"
	comment "anoa.com/chirp/internal/modules/comment/service"
	"anoa.com/chirp/pkg/response"
	"anoa.com/chirp/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) CommentOnPost(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req commentDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"comment": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.CommentOnPost(c.Request.Context(), handle, response.GetUserImage(c), c.Param("postId"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, created)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), handle, c.Param("commentId")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
