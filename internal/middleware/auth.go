package middleware

import (
	"net/http"

	"sozluk/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CheckUserKey = "user"

// SessionUserKey is the session key holding the logged in author id.
const SessionUserKey = "user_id"

// AuthRequired rejects requests without a logged in author.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "login required",
			})
			return
		}
		c.Next()
	}
}

// LoadUser retrieves the author from the session and sets it on the context.
// Authors that were deactivated or frozen since logging in are treated as
// anonymous.
func LoadUser(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserKey)

		if userID != nil {
			var author models.Author
			result := gdb.WithContext(c.Request.Context()).First(&author, userID)
			if result.Error == nil && author.IsActive && !author.IsFrozen {
				c.Set(CheckUserKey, &author)
			}
		}
		c.Next()
	}
}

// CurrentAuthor returns the logged in author, or nil.
func CurrentAuthor(c *gin.Context) *models.Author {
	if v, exists := c.Get(CheckUserKey); exists {
		if author, ok := v.(*models.Author); ok {
			return author
		}
	}
	return nil
}
