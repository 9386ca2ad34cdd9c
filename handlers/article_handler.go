package handlers

import (
	"errors"
	"net/http"
	"strings"

	"blog-cms/helper"
	"blog-cms/middleware"
	"blog-cms/models"
	"blog-cms/services"
	"blog-cms/uploads"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the image limit
const formOverhead = 1 << 20

type ArticleHandler struct {
	articleService services.ArticleService
	store          *uploads.Store
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, store *uploads.Store, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, store: store, Helper: h}
}

// CreateArticle godoc
// @Summary      Create an article
// @Description  Accepts JSON, or multipart/form-data with an optional "image" file.
// @Tags         articles
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body   body      models.CreateArticleRequest  false  "article"
// @Param        image  formData  file                         false  "cover image"
// @Success      201    {object}  models.Article
// @Failure      400    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Router       /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var (
		req    models.CreateArticleRequest
		stored *uploads.Stored
	)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.store.MaxBytes()+formOverhead)
		if err := c.ShouldBind(&req); err != nil {
			h.Helper.SendBadRequest(c, "Invalid form data", err.Error())
			return
		}

		file, err := c.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// the image is optional
		case err != nil:
			h.Helper.SendBadRequest(c, "Invalid image upload", err.Error())
			return
		default:
			stored, err = h.store.Save(file)
			if err != nil {
				h.Helper.SendServiceError(c, err)
				return
			}
			req.Image = stored.Image
			req.Thumbnail = stored.Thumbnail
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		if stored != nil {
			h.store.Remove(stored)
		}
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created", article)
}

// UpdateArticle godoc
// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                          true  "article id"
// @Param        body  body      models.UpdateArticleRequest  true  "fields to change"
// @Success      200   {object}  models.Article
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated", article)
}

// DeleteArticle godoc
// @Summary      Delete an article with its comments and votes
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "article id"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article deleted successfully", gin.H{"id": id})
}

// GetArticles godoc
// @Summary      List articles, newest first
// @Tags         articles
// @Produce      json
// @Success      200  {array}  models.Article
// @Router       /articles [get]
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	articles, err := h.articleService.FindAll(c.Request.Context())
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", articles)
}

// GetArticle godoc
// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Param        id   path      int  true  "article id"
// @Success      200  {object}  models.Article
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.FindOne(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", article)
}

// GetMyArticles godoc
// @Summary      Articles written by the current user
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Article
// @Router       /articles/user [get]
func (h *ArticleHandler) GetMyArticles(c *gin.Context) {
	identity := middleware.Identity(c)
	if identity == nil {
		h.Helper.SendUnauthorizedError(c, "authentication required", h.Helper.EmptyJsonMap())
		return
	}

	articles, err := h.articleService.FindByAuthor(c.Request.Context(), identity.UserID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", articles)
}

// GetArticlesByAuthor godoc
// @Summary      Articles written by a user
// @Tags         articles
// @Produce      json
// @Param        userId  path      int  true  "author id"
// @Success      200     {array}   models.Article
// @Failure      400     {object}  map[string]interface{}
// @Router       /articles/user/{userId} [get]
func (h *ArticleHandler) GetArticlesByAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "userId")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	articles, err := h.articleService.FindByAuthor(c.Request.Context(), authorID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", articles)
}
