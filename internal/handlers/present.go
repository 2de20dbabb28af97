package handlers

import (
	"sozluk/internal/models"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
)

func entryJSON(e *models.Entry) gin.H {
	return gin.H{
		"id":             e.ID,
		"topic":          gin.H{"title": e.Topic.Title, "slug": e.Topic.Slug},
		"author":         gin.H{"username": e.Author.Username, "slug": e.Author.Slug},
		"content_html":   utils.RenderEntry(e.Content),
		"score":          e.Score().StringFixed(2),
		"favorite_count": e.FavoriteCount,
		"is_favorited":   e.IsFavorited,
		"created_at":     e.CreatedAt,
	}
}

func authorJSON(a *models.Author) gin.H {
	return gin.H{
		"username":  a.Username,
		"slug":      a.Slug,
		"is_novice": a.IsNovice,
	}
}

func topicJSON(t *models.Topic) gin.H {
	return gin.H{"title": t.Title, "slug": t.Slug}
}

func categoryJSON(cat *models.Category) gin.H {
	return gin.H{"name": cat.Name, "slug": cat.Slug, "description": cat.Description}
}

// mementoJSON is nil when there is no note.
func mementoJSON(m *models.Memento) gin.H {
	if m == nil {
		return nil
	}
	return gin.H{"body": m.Body, "updated_at": m.UpdatedAt}
}
