package models

import (
	"time"
)

// UpvotedEntry and DownvotedEntry hold identity votes. The vote service keeps
// an (author, entry) pair in at most one of the two tables.
type UpvotedEntry struct {
	AuthorID  uint      `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
	EntryID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"entry_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Entry     Entry     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type DownvotedEntry struct {
	AuthorID  uint      `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
	EntryID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"entry_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Entry     Entry     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
