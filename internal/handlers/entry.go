package handlers

import (
	"fmt"
	"net/http"

	"sozluk/internal/middleware"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	entries   *services.EntryService
	favorites *services.FavoriteService
	profiles  *ProfileCache
}

func NewEntryHandler(entries *services.EntryService, favorites *services.FavoriteService, profiles *ProfileCache) *EntryHandler {
	return &EntryHandler{entries: entries, favorites: favorites, profiles: profiles}
}

// Action dispatches /entry/action by its "type" field. Only favorite_list is
// allowed over GET.
func (h *EntryHandler) Action(c *gin.Context) {
	action := requestValue(c, "type")
	entryID, err := utils.ParseID(requestValue(c, "entry_id"))
	if err != nil {
		RenderError(c, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	if c.Request.Method == http.MethodGet && action != "favorite_list" {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "use POST for " + action})
		return
	}

	switch action {
	case "favorite":
		h.favorite(c, entryID)
	case "favorite_list":
		h.favoriteList(c, entryID)
	case "delete":
		h.delete(c, entryID)
	case "pin":
		h.pin(c, entryID)
	default:
		RenderError(c, fmt.Errorf("%w: unknown entry action %q", services.ErrValidation, action))
	}
}

func (h *EntryHandler) delete(c *gin.Context, entryID uint) {
	author := middleware.CurrentAuthor(c)
	entry, err := h.entries.Delete(c.Request.Context(), author, entryID)
	if err != nil {
		RenderError(c, err)
		return
	}
	h.profiles.Invalidate(author.Slug)
	middleware.Logf(c, "entry %d deleted by author %d", entry.ID, entry.AuthorID)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": "/topic/" + entry.Topic.Slug,
	})
}

func (h *EntryHandler) pin(c *gin.Context, entryID uint) {
	author := middleware.CurrentAuthor(c)
	pinned, err := h.entries.Pin(c.Request.Context(), author, entryID)
	if err != nil {
		RenderError(c, err)
		return
	}
	h.profiles.Invalidate(author.Slug)
	c.JSON(http.StatusOK, gin.H{"success": true, "pinned": pinned})
}
