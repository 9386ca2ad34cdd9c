package handlers

import (
	"blog-cms/helper"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService services.CommentService, h *helper.HTTPHelper) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: h}
}

// AddComment godoc
// @Summary      Comment on an article
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      int                          true  "article id"
// @Param        body  body      models.CreateCommentRequest  true  "comment"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /articles/{id}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), articleID, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Comment added", comment)
}

// GetComments godoc
// @Summary      Comments of an article
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "article id"
// @Success      200  {array}   models.Comment
// @Failure      400  {object}  map[string]interface{}
// @Router       /articles/{id}/comments [get]
func (h *CommentHandler) GetComments(c *gin.Context) {
	articleID, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), articleID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", comments)
}
