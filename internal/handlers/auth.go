package handlers

import (
	"net/http"
	"strings"

	"sozluk/internal/middleware"
	"sozluk/internal/models"
	"sozluk/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(gdb *gorm.DB) *AuthHandler {
	return &AuthHandler{db: gdb}
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var author models.Author
	if err := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&author).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "wrong username or password"})
		return
	}

	if !utils.CheckPasswordHash(password, author.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "wrong username or password"})
		return
	}

	if !author.IsActive || author.IsFrozen {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "account is not active"})
		return
	}

	session := sessions.Default(c)
	// Votes cast anonymously stay with the anonymous session.
	session.Delete(middleware.AnonVotesKey)
	session.Set(middleware.SessionUserKey, author.ID)
	if err := session.Save(); err != nil {
		middleware.Logf(c, "save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "author": authorJSON(&author)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
