package services

import (
	"context"
	"errors"
	"fmt"

	"sozluk/internal/metrics"
	"sozluk/internal/models"

	"gorm.io/gorm"
)

const (
	FavoriteAdded   = 1
	FavoriteRemoved = -1
)

// FavoriteResult is what the client needs after a toggle: the favoriter count,
// counted the way profile tabs count it, and whether the entry is now
// favorited (1) or not (-1). AuthorSlug names the entry's author.
type FavoriteResult struct {
	Count      int64  `json:"count"`
	Status     int    `json:"status"`
	AuthorSlug string `json:"-"`
}

// Favoriters splits the usernames that favorited an entry by trust tier.
type Favoriters struct {
	Authors []string `json:"users"`
	Novices []string `json:"novices"`
}

type FavoriteService struct {
	db      *gorm.DB
	rates   Rates
	scores  *ScoreAccumulator
	metrics *metrics.VoteMetrics
}

func NewFavoriteService(db *gorm.DB, rates Rates, m *metrics.VoteMetrics) *FavoriteService {
	return &FavoriteService{
		db:      db,
		rates:   rates,
		scores:  NewScoreAccumulator(),
		metrics: m,
	}
}

// Toggle adds the entry to the author's favorites or removes it if it is
// already there. The score moves by the favorite rate either way, so calling
// Toggle twice leaves count and score where they were.
func (s *FavoriteService) Toggle(ctx context.Context, author *models.Author, entryID uint) (*FavoriteResult, error) {
	if author == nil {
		return nil, ErrLoginRequired
	}
	if entryID == 0 {
		return nil, fmt.Errorf("%w: missing entry id", ErrValidation)
	}

	result := &FavoriteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := loadEntryTarget(tx, entryID)
		if err != nil {
			return err
		}
		result.AuthorSlug = target.AuthorSlug

		var existing models.EntryFavorite
		err = tx.Where("author_id = ? AND entry_id = ?", author.ID, entryID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("author_id = ? AND entry_id = ?", author.ID, entryID).
				Delete(&models.EntryFavorite{}).Error; err != nil {
				return storeError(err, "remove favorite")
			}
			if err := s.scores.ApplyDelta(tx, entryID, -s.rates.Favorite(), false); err != nil {
				return err
			}
			result.Status = FavoriteRemoved
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.scores.ApplyDelta(tx, entryID, s.rates.Favorite(), false); err != nil {
				return err
			}
			if err := tx.Create(&models.EntryFavorite{AuthorID: author.ID, EntryID: entryID}).Error; err != nil {
				return storeError(err, "add favorite")
			}
			result.Status = FavoriteAdded
		default:
			return storeError(err, "favorite lookup")
		}

		counts, err := countFavorites(tx, []uint{entryID}, author)
		if err != nil {
			return storeError(err, "favorite count")
		}
		result.Count = int64(counts[entryID])
		return nil
	})
	if err != nil {
		return nil, txError(err)
	}

	if result.Status == FavoriteAdded {
		s.metrics.ObserveFavorite("added")
	} else {
		s.metrics.ObserveFavorite("removed")
	}
	s.metrics.ObserveScoreUpdate("favorite")
	return result, nil
}

// ListFavoriters returns who favorited the entry, regular authors and novices
// apart, in the order they favorited it.
func (s *FavoriteService) ListFavoriters(ctx context.Context, entryID uint) (*Favoriters, error) {
	if entryID == 0 {
		return nil, fmt.Errorf("%w: missing entry id", ErrValidation)
	}

	gdb := s.db.WithContext(ctx)
	var entry models.Entry
	if err := gdb.Select("id").First(&entry, entryID).Error; err != nil {
		return nil, storeError(err, fmt.Sprintf("entry %d", entryID))
	}

	var rows []struct {
		Username string
		IsNovice bool
	}
	if err := gdb.Table("entry_favorites").
		Select("authors.username, authors.is_novice").
		Joins("JOIN authors ON authors.id = entry_favorites.author_id").
		Where("entry_favorites.entry_id = ?", entryID).
		Order("entry_favorites.created_at ASC, authors.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, storeError(err, "favoriters")
	}

	out := &Favoriters{Authors: []string{}, Novices: []string{}}
	for _, r := range rows {
		if r.IsNovice {
			out.Novices = append(out.Novices, r.Username)
		} else {
			out.Authors = append(out.Authors, r.Username)
		}
	}
	return out, nil
}
