package models

import (
	"time"
)

// EntryFavorite is one favorite, a row per (author, entry).
type EntryFavorite struct {
	AuthorID  uint      `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
	EntryID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"entry_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Entry     Entry     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
