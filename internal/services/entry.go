package services

import (
	"context"
	"fmt"

	"sozluk/internal/models"

	"gorm.io/gorm"
)

// EntryService holds the owner actions on an entry.
type EntryService struct {
	db *gorm.DB
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{db: db}
}

func (s *EntryService) owned(tx *gorm.DB, author *models.Author, entryID uint) (*models.Entry, error) {
	if author == nil {
		return nil, ErrLoginRequired
	}
	if entryID == 0 {
		return nil, fmt.Errorf("%w: missing entry id", ErrValidation)
	}
	var entry models.Entry
	if err := tx.Preload("Topic").First(&entry, entryID).Error; err != nil {
		return nil, storeError(err, fmt.Sprintf("entry %d", entryID))
	}
	if entry.AuthorID != author.ID {
		return nil, fmt.Errorf("%w: entry %d belongs to another author", ErrForbidden, entryID)
	}
	return &entry, nil
}

// Delete removes an entry owned by author together with its votes,
// favorites and any pin pointing at it. The deleted entry is returned with
// its topic so the caller can redirect there.
func (s *EntryService) Delete(ctx context.Context, author *models.Author, entryID uint) (*models.Entry, error) {
	var deleted *models.Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.owned(tx, author, entryID)
		if err != nil {
			return err
		}

		for _, dependent := range []interface{}{&models.EntryFavorite{}, &models.UpvotedEntry{}, &models.DownvotedEntry{}} {
			if err := tx.Where("entry_id = ?", entryID).Delete(dependent).Error; err != nil {
				return storeError(err, "delete entry relations")
			}
		}
		if err := tx.Model(&models.Author{}).
			Where("pinned_entry_id = ?", entryID).
			UpdateColumn("pinned_entry_id", nil).Error; err != nil {
			return storeError(err, "clear pins")
		}
		if err := tx.Delete(&models.Entry{}, entryID).Error; err != nil {
			return storeError(err, "delete entry")
		}
		deleted = entry
		return nil
	})
	if err != nil {
		return nil, txError(err)
	}
	return deleted, nil
}

// Pin toggles the entry as the pinned entry on its author's profile and
// reports whether it is pinned afterwards. Drafts cannot be pinned.
func (s *EntryService) Pin(ctx context.Context, author *models.Author, entryID uint) (bool, error) {
	var pinned bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.owned(tx, author, entryID)
		if err != nil {
			return err
		}
		if entry.IsDraft {
			return fmt.Errorf("%w: draft entries cannot be pinned", ErrValidation)
		}

		var current models.Author
		if err := tx.Select("id", "pinned_entry_id").First(&current, author.ID).Error; err != nil {
			return storeError(err, "author")
		}

		var next interface{}
		if current.PinnedEntryID == nil || *current.PinnedEntryID != entryID {
			next = entryID
			pinned = true
		}
		if err := tx.Model(&models.Author{}).
			Where("id = ?", author.ID).
			UpdateColumn("pinned_entry_id", next).Error; err != nil {
			return storeError(err, "pin entry")
		}
		return nil
	})
	if err != nil {
		return false, txError(err)
	}
	return pinned, nil
}
