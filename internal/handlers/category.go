package handlers

import (
	"fmt"
	"net/http"

	"sozluk/internal/middleware"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Action handles /category/action. The only action is "follow".
func (h *CategoryHandler) Action(c *gin.Context) {
	if action := requestValue(c, "type"); action != "follow" {
		RenderError(c, fmt.Errorf("%w: unknown category action %q", services.ErrValidation, action))
		return
	}
	categoryID, err := utils.ParseID(requestValue(c, "category_id"))
	if err != nil {
		RenderError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	following, err := h.categories.ToggleFollow(c.Request.Context(), middleware.CurrentAuthor(c), categoryID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "following": following})
}

// List returns the categories the logged in author follows.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.Followed(c.Request.Context(), middleware.CurrentAuthor(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	out := make([]gin.H, 0, len(categories))
	for i := range categories {
		out = append(out, categoryJSON(&categories[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": out})
}

// ListAll shows every category.
func (h *CategoryHandler) ListAll(c *gin.Context) {
	categories, err := h.categories.All(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	out := make([]gin.H, 0, len(categories))
	for i := range categories {
		out = append(out, categoryJSON(&categories[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": out})
}
