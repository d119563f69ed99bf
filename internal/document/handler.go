package document

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isaiahpere/notion-clony/internal/errors"
	"github.com/isaiahpere/notion-clony/internal/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// pathID validates the :id path parameter before it reaches the store.
// The id column is a postgres uuid, so a malformed id would otherwise
// come back as a driver error instead of a clean not-found.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.Error(errors.NotFound("Document not found", err))
		return "", false
	}
	return id, true
}

type CreateRequest struct {
	Title          string  `json:"title" binding:"required,min=1,max=255"`
	ParentDocument *string `json:"parent_document" binding:"omitempty,uuid"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.Create(c.Request.Context(), userID, form.Title, form.ParentDocument)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) ShowSidebar(c *gin.Context) {
	userID := middleware.SubjectFromContext(c)

	var parent *string
	if p := c.Query("parent_document"); p != "" {
		if _, err := uuid.Parse(p); err != nil {
			c.Error(errors.UnprocessableEntity("parent_document must be a valid id", err))
			return
		}
		parent = &p
	}

	docs, err := h.service.GetSidebar(c.Request.Context(), userID, parent)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *Handler) ShowSearch(c *gin.Context) {
	userID := middleware.SubjectFromContext(c)

	docs, err := h.service.GetSearch(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *Handler) ShowTrash(c *gin.Context) {
	userID := middleware.SubjectFromContext(c)

	docs, err := h.service.GetTrash(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// ShowDocument is mounted behind OptionalAuth: the subject is "" for
// anonymous readers and the service decides visibility.
func (h *Handler) ShowDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

type UpdateRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	CoverImage  *string `json:"cover_image"`
	Icon        *string `json:"icon"`
	IsPublished *bool   `json:"is_published"`
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var form UpdateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.Update(c.Request.Context(), id, userID, UpdateInput{
		Title:       form.Title,
		Content:     form.Content,
		CoverImage:  form.CoverImage,
		Icon:        form.Icon,
		IsPublished: form.IsPublished,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.Archive(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.Restore(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.Remove(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) RemoveIcon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.RemoveIcon(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) RemoveCoverImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := middleware.SubjectFromContext(c)

	doc, err := h.service.RemoveCoverImage(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
