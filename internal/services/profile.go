package services

import (
	"context"
	"fmt"

	"sozluk/internal/models"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// DefaultEntriesPerPage is the profile page size.
const DefaultEntriesPerPage = 15

// TabResult is one page of a profile tab. Only the slice matching Kind is
// filled; the others stay nil.
type TabResult struct {
	Tab        Tab
	Label      string
	Kind       EntityKind
	Page       int
	HasMore    bool
	Entries    []models.Entry
	Authors    []models.Author
	Topics     []models.Topic
	Categories []models.Category
}

type ProfileService struct {
	db      *gorm.DB
	clock   clockwork.Clock
	perPage int
}

func NewProfileService(db *gorm.DB, clock clockwork.Clock, perPage int) *ProfileService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if perPage <= 0 {
		perPage = DefaultEntriesPerPage
	}
	return &ProfileService{db: db, clock: clock, perPage: perPage}
}

// Lookup loads the profile behind slug as seen by requester. Profiles that
// are inactive, frozen, private or on either side of a block with requester
// are reported as ErrNotFound.
func (s *ProfileService) Lookup(ctx context.Context, slug string, requester *models.Author) (*models.Author, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: empty profile slug", ErrValidation)
	}

	gdb := s.db.WithContext(ctx)
	var profile models.Author
	if err := gdb.Where("slug = ?", slug).First(&profile).Error; err != nil {
		return nil, storeError(err, fmt.Sprintf("author %q", slug))
	}
	if !profile.Accessible() {
		return nil, fmt.Errorf("%w: author %q", ErrNotFound, slug)
	}

	if requester != nil && requester.ID != profile.ID {
		var blocks int64
		if err := gdb.Model(&models.AuthorBlock{}).
			Where("(author_id = ? AND blocked_id = ?) OR (author_id = ? AND blocked_id = ?)",
				requester.ID, profile.ID, profile.ID, requester.ID).
			Count(&blocks).Error; err != nil {
			return nil, storeError(err, "block lookup")
		}
		if blocks > 0 {
			return nil, fmt.Errorf("%w: author %q", ErrNotFound, slug)
		}
	}
	return &profile, nil
}

// Resolve returns one page of a profile tab. Unknown tab names resolve to
// the latest tab. The profile must already have passed Lookup.
func (s *ProfileService) Resolve(ctx context.Context, profile *models.Author, name string, requester *models.Author, page int) (*TabResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: missing profile", ErrValidation)
	}
	if page < 1 {
		page = 1
	}

	tab := ParseTab(name)
	spec := tabs[tab]
	result := &TabResult{Tab: tab, Label: spec.label, Kind: spec.kind, Page: page}

	offset := (page - 1) * s.perPage
	limit := s.perPage
	if spec.cap > 0 {
		if offset >= spec.cap {
			s.emptyResult(result)
			return result, nil
		}
		if spec.cap-offset < limit {
			limit = spec.cap - offset
		}
	}

	gdb := s.db.WithContext(ctx)
	// One extra row tells whether a next page exists.
	q := spec.query(gdb, profile, s.clock.Now()).Offset(offset).Limit(limit + 1)

	var err error
	switch spec.kind {
	case KindEntry:
		var entries []models.Entry
		err = q.Preload("Author").Preload("Topic").Find(&entries).Error
		if err == nil {
			entries, result.HasMore = trimPage(entries, limit)
			err = s.annotateEntries(gdb, entries, requester)
		}
		result.Entries = entries
	case KindAuthor:
		var authors []models.Author
		err = q.Find(&authors).Error
		authors, result.HasMore = trimPage(authors, limit)
		if spec.cap > 0 && offset+limit >= spec.cap {
			result.HasMore = false
		}
		result.Authors = authors
	case KindTopic:
		var topics []models.Topic
		err = q.Find(&topics).Error
		result.Topics, result.HasMore = trimPage(topics, limit)
	case KindCategory:
		var categories []models.Category
		err = q.Find(&categories).Error
		result.Categories, result.HasMore = trimPage(categories, limit)
	}
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("tab %s", tab))
	}
	s.emptyResult(result)
	return result, nil
}

func (s *ProfileService) emptyResult(r *TabResult) {
	switch r.Kind {
	case KindEntry:
		if r.Entries == nil {
			r.Entries = []models.Entry{}
		}
	case KindAuthor:
		if r.Authors == nil {
			r.Authors = []models.Author{}
		}
	case KindTopic:
		if r.Topics == nil {
			r.Topics = []models.Topic{}
		}
	case KindCategory:
		if r.Categories == nil {
			r.Categories = []models.Category{}
		}
	}
}

func trimPage[T any](rows []T, limit int) ([]T, bool) {
	if len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}

// annotateEntries fills FavoriteCount and IsFavorited in two grouped queries
// for the whole page.
func (s *ProfileService) annotateEntries(gdb *gorm.DB, entries []models.Entry, requester *models.Author) error {
	if len(entries) == 0 {
		return nil
	}

	entryIDs := make([]uint, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}

	countMap, err := countFavorites(gdb, entryIDs, requester)
	if err != nil {
		return err
	}

	favorited := make(map[uint]bool)
	if requester != nil {
		var mine []uint
		if err := gdb.Model(&models.EntryFavorite{}).
			Where("author_id = ? AND entry_id IN ?", requester.ID, entryIDs).
			Pluck("entry_id", &mine).Error; err != nil {
			return err
		}
		for _, id := range mine {
			favorited[id] = true
		}
	}

	for i := range entries {
		entries[i].FavoriteCount = countMap[entries[i].ID]
		entries[i].IsFavorited = favorited[entries[i].ID]
	}
	return nil
}

// countFavorites counts favoriters per entry. Favoriters that are not
// accessible, or that requester has blocked, are not counted.
func countFavorites(gdb *gorm.DB, entryIDs []uint, requester *models.Author) (map[uint]int, error) {
	var counts []struct {
		EntryID uint
		Count   int
	}
	q := gdb.Table("entry_favorites").
		Select("entry_favorites.entry_id, COUNT(*) AS count").
		Joins("JOIN authors ON authors.id = entry_favorites.author_id").
		Where("entry_favorites.entry_id IN ?", entryIDs).
		Where("authors.is_active = ? AND authors.is_frozen = ? AND authors.is_private = ?", true, false, false)
	if requester != nil {
		q = q.Where("entry_favorites.author_id NOT IN (SELECT blocked_id FROM author_blocks WHERE author_id = ?)", requester.ID)
	}
	if err := q.Group("entry_favorites.entry_id").Scan(&counts).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]int, len(counts))
	for _, c := range counts {
		out[c.EntryID] = c.Count
	}
	return out, nil
}
