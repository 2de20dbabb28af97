package services

import (
	"fmt"

	"sozluk/internal/models"

	"gorm.io/gorm"
)

// ScoreAccumulator writes weighted deltas to an entry's running score.
//
// Magnitudes arrive already weighted by the actor's tier. When isChange is
// set the caller has combined the reversal of the old vote and the new vote
// into one magnitude; the accumulator applies it as given and never doubles.
type ScoreAccumulator struct{}

func NewScoreAccumulator() *ScoreAccumulator {
	return &ScoreAccumulator{}
}

// ApplyDelta adds magnitude to the entry score inside tx. The increment is a
// single UPDATE so concurrent voters on the same row do not lose updates.
func (a *ScoreAccumulator) ApplyDelta(tx *gorm.DB, entryID uint, magnitude Hundredths, isChange bool) error {
	mode := "single"
	if isChange {
		mode = "change"
	}

	res := tx.Model(&models.Entry{}).
		Where("id = ?", entryID).
		UpdateColumn("vote_rate", gorm.Expr("vote_rate + ?", int64(magnitude)))
	if res.Error != nil {
		return fmt.Errorf("%w: apply %s delta %s to entry %d: %v", ErrPersistence, mode, magnitude.Decimal().StringFixed(2), entryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: entry %d", ErrNotFound, entryID)
	}
	return nil
}

// Score reads the current score of an entry.
func (a *ScoreAccumulator) Score(tx *gorm.DB, entryID uint) (Hundredths, error) {
	var entry models.Entry
	if err := tx.Select("id", "vote_rate").First(&entry, entryID).Error; err != nil {
		return 0, storeError(err, fmt.Sprintf("entry %d", entryID))
	}
	return Hundredths(entry.VoteRate), nil
}
