package handlers

import (
	"net/http"

	"sozluk/internal/middleware"
	"sozluk/internal/models"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	profiles *services.ProfileService
	mementos *services.MementoService
	cache    *ProfileCache
}

// NewUserHandler builds the profile handler. Pages rendered for anonymous
// viewers go through cache.
func NewUserHandler(profiles *services.ProfileService, mementos *services.MementoService, cache *ProfileCache) *UserHandler {
	return &UserHandler{profiles: profiles, mementos: mementos, cache: cache}
}

// Profile serves /author/:slug and /author/:slug/:tab. The tab may also come
// from ?t=, unknown tabs show the latest entries. Access is checked before the
// cache is consulted.
func (h *UserHandler) Profile(c *gin.Context) {
	slug := c.Param("slug")
	tabName := c.Param("tab")
	if tabName == "" {
		tabName = c.Query("t")
	}
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	requester := middleware.CurrentAuthor(c)
	profile, err := h.profiles.Lookup(c.Request.Context(), slug, requester)
	if err != nil {
		RenderError(c, err)
		return
	}

	cacheKey := profileCacheKey(profile.Slug, services.ParseTab(tabName), page)
	if requester == nil {
		if cached, ok := h.cache.get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.profiles.Resolve(c.Request.Context(), profile, tabName, requester, page)
	if err != nil {
		RenderError(c, err)
		return
	}

	body := gin.H{
		"success": true,
		"profile": profileJSON(profile),
		"tabs":    services.Tabs(),
		"tab": gin.H{
			"name":  result.Tab,
			"label": result.Label,
			"type":  result.Kind,
		},
		"page":     result.Page,
		"has_more": result.HasMore,
		"items":    tabItems(result),
	}

	if requester == nil {
		h.cache.set(cacheKey, body)
	} else if requester.ID != profile.ID {
		memento, err := h.mementos.Get(c.Request.Context(), requester, profile)
		if err != nil {
			RenderError(c, err)
			return
		}
		body["memento"] = mementoJSON(memento)
	}
	c.JSON(http.StatusOK, body)
}

// Memento saves the logged in author's private note about a profile. An
// empty body deletes it.
func (h *UserHandler) Memento(c *gin.Context) {
	requester := middleware.CurrentAuthor(c)
	profile, err := h.profiles.Lookup(c.Request.Context(), c.Param("slug"), requester)
	if err != nil {
		RenderError(c, err)
		return
	}

	memento, err := h.mementos.Save(c.Request.Context(), requester, profile, c.PostForm("body"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "memento": mementoJSON(memento)})
}

func profileJSON(p *models.Author) gin.H {
	out := authorJSON(p)
	out["pinned_entry_id"] = p.PinnedEntryID
	out["joined_at"] = p.CreatedAt
	return out
}

func tabItems(r *services.TabResult) []gin.H {
	var items []gin.H
	switch r.Kind {
	case services.KindEntry:
		items = make([]gin.H, 0, len(r.Entries))
		for i := range r.Entries {
			items = append(items, entryJSON(&r.Entries[i]))
		}
	case services.KindAuthor:
		items = make([]gin.H, 0, len(r.Authors))
		for i := range r.Authors {
			items = append(items, authorJSON(&r.Authors[i]))
		}
	case services.KindTopic:
		items = make([]gin.H, 0, len(r.Topics))
		for i := range r.Topics {
			items = append(items, topicJSON(&r.Topics[i]))
		}
	case services.KindCategory:
		items = make([]gin.H, 0, len(r.Categories))
		for i := range r.Categories {
			items = append(items, categoryJSON(&r.Categories[i]))
		}
	}
	return items
}
