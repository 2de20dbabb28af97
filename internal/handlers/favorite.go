package handlers

import (
	"net/http"

	"sozluk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// favorite toggles the entry in the author's favorites.
func (h *EntryHandler) favorite(c *gin.Context, entryID uint) {
	author := middleware.CurrentAuthor(c)
	result, err := h.favorites.Toggle(c.Request.Context(), author, entryID)
	if err != nil {
		RenderError(c, err)
		return
	}
	h.profiles.Invalidate(result.AuthorSlug, author.Slug)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   result.Count,
		"status":  result.Status,
	})
}

// favoriteList returns the usernames that favorited the entry, split into
// authors and novices.
func (h *EntryHandler) favoriteList(c *gin.Context, entryID uint) {
	favoriters, err := h.favorites.ListFavoriters(c.Request.Context(), entryID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   favoriters.Authors,
		"novices": favoriters.Novices,
	})
}
