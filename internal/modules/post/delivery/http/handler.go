package http

import (
	"errors"
	"net/http"

	postDto "anoa.com/chirp/internal/modules/post/dto"
	post "anoa.com/chirp/internal/modules/post/service"
	"anoa.com/chirp/pkg/ratelimiter"
	"anoa.com/chirp/pkg/response"
	"anoa.com/chirp/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"body": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.CreatePost(c.Request.Context(), handle, response.GetUserImage(c), req)
	if err != nil {
		var rateErr *ratelimiter.RateLimitError
		if errors.As(err, &rateErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateErr.Message})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, created)
}

func (h *PostHandler) GetAllPosts(c *gin.Context) {
	posts, err := h.service.GetAllPosts(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	detail, err := h.service.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	handle, err := response.GetHandle(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), handle, c.Param("postId")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
