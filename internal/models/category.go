package models

import (
	"time"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	Slug        string    `gorm:"not null;uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryFollowing is a category an author follows.
type CategoryFollowing struct {
	AuthorID   uint      `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"category_id"`
	Author     Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Category   Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type Topic struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"not null;size:50" json:"title"`
	Slug       string     `gorm:"not null;uniqueIndex" json:"slug"`
	Categories []Category `gorm:"many2many:topic_categories;" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Wish is an author asking for entries on a topic.
type Wish struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TopicID   uint      `gorm:"not null;index" json:"topic_id"`
	Topic     Topic     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Hint      string    `gorm:"size:240" json:"hint"`
	CreatedAt time.Time `json:"created_at"`
}
