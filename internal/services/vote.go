package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sozluk/internal/metrics"
	"sozluk/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Direction string

const (
	VoteUp   Direction = "up"
	VoteDown Direction = "down"
)

func (d Direction) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// ParseDirection accepts "up" and "down".
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: unknown vote direction %q", ErrValidation, s)
	}
	return d, nil
}

// Actor is whoever casts a vote. Author is nil for anonymous visitors, whose
// earlier votes come from the session in AnonVotes.
//
// SaveAnonVotes, when set, stores the updated list of an anonymous actor. It
// runs inside the vote transaction; an error rolls the vote back.
type Actor struct {
	Author        *models.Author
	AnonVotes     AnonVotes
	SaveAnonVotes func(AnonVotes) error
}

func (a Actor) Anonymous() bool {
	return a.Author == nil
}

func (a Actor) tier() string {
	if a.Anonymous() {
		return "anonymous"
	}
	return "author"
}

// VoteOutcome reports the vote state after a cast. Direction is empty when
// the cast retracted an earlier vote. AnonVotes is only set for anonymous
// actors. AuthorSlug names the entry's author.
type VoteOutcome struct {
	EntryID    uint
	AuthorSlug string
	Voted      bool
	Direction  Direction
	Score      decimal.Decimal
	AnonVotes  AnonVotes
}

const (
	transitionCast    = "cast"
	transitionRetract = "retract"
	transitionChange  = "change"
)

type VoteService struct {
	db           *gorm.DB
	rates        Rates
	scores       *ScoreAccumulator
	maxAnonVotes int
	metrics      *metrics.VoteMetrics
}

func NewVoteService(db *gorm.DB, rates Rates, maxAnonVotes int, m *metrics.VoteMetrics) *VoteService {
	if maxAnonVotes <= 0 {
		maxAnonVotes = DefaultMaxAnonVotes
	}
	if maxAnonVotes > MaxAnonVotesLimit {
		maxAnonVotes = MaxAnonVotesLimit
	}
	return &VoteService{
		db:           db,
		rates:        rates,
		scores:       NewScoreAccumulator(),
		maxAnonVotes: maxAnonVotes,
		metrics:      m,
	}
}

// Cast applies a vote in direction d on an entry.
//
// No earlier vote records d. Voting d again retracts it. Voting the opposite
// way moves the score by the new rate minus the old one and flips the record.
// The score change and the identity vote rows commit in one transaction. For
// anonymous actors the session write is the last step of that transaction.
func (s *VoteService) Cast(ctx context.Context, actor Actor, entryID uint, d Direction) (*VoteOutcome, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown vote direction %q", ErrValidation, d)
	}
	if entryID == 0 {
		return nil, fmt.Errorf("%w: missing entry id", ErrValidation)
	}

	anonymous := actor.Anonymous()
	var (
		transition string
		score      Hundredths
		target     entryTarget
		anonVotes  AnonVotes
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if target, err = loadEntryTarget(tx, entryID); err != nil {
			return err
		}

		if !anonymous && actor.Author.ID == target.AuthorID {
			return fmt.Errorf("%w: entry %d", ErrSelfVote, entryID)
		}

		prior, voted, err := s.priorVote(tx, actor, entryID)
		if err != nil {
			return err
		}

		var delta Hundredths
		switch {
		case !voted:
			transition = transitionCast
			delta = s.rates.Weighted(d, anonymous)
		case prior == d:
			transition = transitionRetract
			delta = -s.rates.Weighted(d, anonymous)
		default:
			transition = transitionChange
			delta = s.rates.Weighted(d, anonymous) - s.rates.Weighted(prior, anonymous)
		}

		if err := s.scores.ApplyDelta(tx, entryID, delta, transition == transitionChange); err != nil {
			return err
		}

		if !anonymous {
			if err := recordIdentityVote(tx, actor.Author.ID, entryID, prior, voted, d); err != nil {
				return err
			}
		}

		if score, err = s.scores.Score(tx, entryID); err != nil {
			return err
		}

		if !anonymous {
			return nil
		}
		if transition == transitionRetract {
			anonVotes = actor.AnonVotes.Remove(entryID)
		} else {
			anonVotes = actor.AnonVotes.Upsert(entryID, d, s.maxAnonVotes)
		}
		if actor.SaveAnonVotes != nil {
			if err := actor.SaveAnonVotes(anonVotes); err != nil {
				return fmt.Errorf("%w: save anonymous votes: %v", ErrPersistence, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSelfVote) {
			s.metrics.ObserveRejected("self_vote")
		}
		return nil, txError(err)
	}

	s.metrics.ObserveVote(string(d), transition, actor.tier())
	s.metrics.ObserveScoreUpdate(transition)

	outcome := &VoteOutcome{
		EntryID:    entryID,
		AuthorSlug: target.AuthorSlug,
		Score:      score.Decimal(),
		AnonVotes:  anonVotes,
	}
	if transition != transitionRetract {
		outcome.Voted = true
		outcome.Direction = d
	}
	return outcome, nil
}

// entryTarget is the part of an entry a vote or favorite needs.
type entryTarget struct {
	ID         uint
	AuthorID   uint
	AuthorSlug string
}

func loadEntryTarget(tx *gorm.DB, entryID uint) (entryTarget, error) {
	var target entryTarget
	err := tx.Table("entries").
		Select("entries.id, entries.author_id, authors.slug AS author_slug").
		Joins("JOIN authors ON authors.id = entries.author_id").
		Where("entries.id = ?", entryID).
		Take(&target).Error
	if err != nil {
		return target, storeError(err, fmt.Sprintf("entry %d", entryID))
	}
	return target, nil
}

// priorVote finds the direction the actor already holds on the entry.
func (s *VoteService) priorVote(tx *gorm.DB, actor Actor, entryID uint) (Direction, bool, error) {
	if actor.Anonymous() {
		d, ok := actor.AnonVotes.Lookup(entryID)
		return d, ok, nil
	}

	var up int64
	if err := tx.Model(&models.UpvotedEntry{}).
		Where("author_id = ? AND entry_id = ?", actor.Author.ID, entryID).
		Count(&up).Error; err != nil {
		return "", false, storeError(err, "upvote lookup")
	}
	if up > 0 {
		return VoteUp, true, nil
	}

	var down int64
	if err := tx.Model(&models.DownvotedEntry{}).
		Where("author_id = ? AND entry_id = ?", actor.Author.ID, entryID).
		Count(&down).Error; err != nil {
		return "", false, storeError(err, "downvote lookup")
	}
	if down > 0 {
		return VoteDown, true, nil
	}
	return "", false, nil
}

// recordIdentityVote moves the (author, entry) pair between the upvote and
// downvote tables so that it sits in at most one of them.
func recordIdentityVote(tx *gorm.DB, authorID, entryID uint, prior Direction, voted bool, d Direction) error {
	if voted {
		if err := tx.Where("author_id = ? AND entry_id = ?", authorID, entryID).
			Delete(voteRow(prior, 0, 0)).Error; err != nil {
			return storeError(err, "remove vote")
		}
		if prior == d {
			return nil
		}
	}
	if err := tx.Create(voteRow(d, authorID, entryID)).Error; err != nil {
		return storeError(err, "record vote")
	}
	return nil
}

func voteRow(d Direction, authorID, entryID uint) interface{} {
	if d == VoteUp {
		return &models.UpvotedEntry{AuthorID: authorID, EntryID: entryID}
	}
	return &models.DownvotedEntry{AuthorID: authorID, EntryID: entryID}
}
