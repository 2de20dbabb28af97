package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sozluk/internal/models"

	"gorm.io/gorm"
)

// MaxMementoLength bounds a memento body, in characters.
const MaxMementoLength = 2000

// MementoService keeps the private notes authors write about other profiles.
type MementoService struct {
	db *gorm.DB
}

func NewMementoService(db *gorm.DB) *MementoService {
	return &MementoService{db: db}
}

// Get returns holder's note about subject, or nil when there is none or
// holder is anonymous.
func (s *MementoService) Get(ctx context.Context, holder, subject *models.Author) (*models.Memento, error) {
	if holder == nil || subject == nil || holder.ID == subject.ID {
		return nil, nil
	}
	var memento models.Memento
	err := s.db.WithContext(ctx).
		Where("holder_id = ? AND subject_id = ?", holder.ID, subject.ID).
		First(&memento).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err, "memento")
	}
	return &memento, nil
}

// Save writes holder's note about subject. A non-empty body creates or
// replaces the note, an empty body deletes it. The returned memento is nil
// when no note remains.
func (s *MementoService) Save(ctx context.Context, holder, subject *models.Author, body string) (*models.Memento, error) {
	if holder == nil {
		return nil, ErrLoginRequired
	}
	if subject == nil {
		return nil, fmt.Errorf("%w: missing profile", ErrValidation)
	}
	if holder.ID == subject.ID {
		return nil, fmt.Errorf("%w: mementos are about other authors", ErrValidation)
	}
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) > MaxMementoLength {
		return nil, fmt.Errorf("%w: memento longer than %d characters", ErrValidation, MaxMementoLength)
	}

	var saved *models.Memento
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Memento
		err := tx.Where("holder_id = ? AND subject_id = ?", holder.ID, subject.ID).First(&existing).Error
		switch {
		case err == nil:
			if body == "" {
				if err := tx.Delete(&existing).Error; err != nil {
					return storeError(err, "delete memento")
				}
				return nil
			}
			existing.Body = body
			if err := tx.Save(&existing).Error; err != nil {
				return storeError(err, "update memento")
			}
			saved = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if body == "" {
				return nil
			}
			memento := &models.Memento{HolderID: holder.ID, SubjectID: subject.ID, Body: body}
			if err := tx.Create(memento).Error; err != nil {
				return storeError(err, "create memento")
			}
			saved = memento
		default:
			return storeError(err, "memento lookup")
		}
		return nil
	})
	if err != nil {
		return nil, txError(err)
	}
	return saved, nil
}
