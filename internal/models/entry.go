package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Entry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TopicID  uint   `gorm:"not null;index" json:"topic_id"`
	Topic    Topic  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"topic"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   Author `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Content  string `gorm:"type:text;not null" json:"content"`
	// VoteRate is the running score in hundredths (0.20 is stored as 20).
	// Only the score accumulator writes it.
	VoteRate  int64     `gorm:"not null;default:0;index" json:"-"`
	IsDraft   bool      `gorm:"not null;index" json:"is_draft"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not columns; filled in by profile queries.
	FavoriteCount int  `gorm:"-" json:"favorite_count"`
	IsFavorited   bool `gorm:"-" json:"is_favorited"`
}

// Score returns VoteRate as a two-place decimal.
func (e *Entry) Score() decimal.Decimal {
	return decimal.New(e.VoteRate, -2)
}
