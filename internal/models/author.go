package models

import (
	"time"
)

type Author struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"uniqueIndex;size:35;not null" json:"username"`
	Slug          string    `gorm:"uniqueIndex;size:35;not null" json:"slug"`
	Password      string    `gorm:"not null" json:"-"` // Hash
	IsNovice      bool      `gorm:"not null;index" json:"is_novice"`
	IsActive      bool      `gorm:"not null" json:"-"` // callers must set this on create
	IsFrozen      bool      `gorm:"not null" json:"-"`
	IsPrivate     bool      `gorm:"not null" json:"-"`
	PinnedEntryID *uint     `json:"pinned_entry_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Accessible reports whether other authors may see this profile at all.
func (a *Author) Accessible() bool {
	return a.IsActive && !a.IsFrozen && !a.IsPrivate
}

// AuthorBlock records that AuthorID blocked BlockedID.
type AuthorBlock struct {
	AuthorID  uint      `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
	BlockedID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"blocked_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Blocked   Author    `gorm:"foreignKey:BlockedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Memento is a private note Holder keeps about another author's profile.
// Nobody but Holder sees it.
type Memento struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HolderID  uint      `gorm:"not null;uniqueIndex:idx_memento_pair" json:"-"`
	Holder    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SubjectID uint      `gorm:"not null;uniqueIndex:idx_memento_pair" json:"-"`
	Subject   Author    `gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
