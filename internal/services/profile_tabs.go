package services

import (
	"time"

	"sozluk/internal/models"

	"gorm.io/gorm"
)

type Tab string

const (
	TabLatest        Tab = "latest"
	TabFavorites     Tab = "favorites"
	TabPopular       Tab = "popular"
	TabLiked         Tab = "liked"
	TabWeeklyGoods   Tab = "weeklygoods"
	TabBeloved       Tab = "beloved"
	TabAuthors       Tab = "authors"
	TabRecentlyVoted Tab = "recentlyvoted"
	TabWishes        Tab = "wishes"
	TabChannels      Tab = "channels"
)

// EntityKind is what a tab lists.
type EntityKind string

const (
	KindEntry    EntityKind = "entry"
	KindAuthor   EntityKind = "author"
	KindTopic    EntityKind = "topic"
	KindCategory EntityKind = "category"
)

// tabQuery builds the selection and ordering of a tab for one profile.
// Pagination and preloading are added by the resolver.
type tabQuery func(tx *gorm.DB, p *models.Author, now time.Time) *gorm.DB

type tabSpec struct {
	label string
	kind  EntityKind
	query tabQuery
	// cap limits the total number of rows across all pages, 0 for none.
	cap int
}

var tabOrder = []Tab{
	TabLatest, TabFavorites, TabPopular, TabLiked, TabWeeklyGoods,
	TabBeloved, TabAuthors, TabRecentlyVoted, TabWishes, TabChannels,
}

var tabs = map[Tab]tabSpec{
	TabLatest:        {label: "entry'ler", kind: KindEntry, query: latestTab},
	TabFavorites:     {label: "favorileri", kind: KindEntry, query: favoritesTab},
	TabPopular:       {label: "en çok favorilenenleri", kind: KindEntry, query: popularTab},
	TabLiked:         {label: "en beğenilenleri", kind: KindEntry, query: likedTab},
	TabWeeklyGoods:   {label: "bu hafta dikkat çekenleri", kind: KindEntry, query: weeklyGoodsTab},
	TabBeloved:       {label: "el emeği göz nuru", kind: KindEntry, query: belovedTab},
	TabAuthors:       {label: "favori yazarları", kind: KindAuthor, query: authorsTab, cap: 10},
	TabRecentlyVoted: {label: "son oylananları", kind: KindEntry, query: recentlyVotedTab},
	TabWishes:        {label: "ukteleri", kind: KindTopic, query: wishesTab},
	TabChannels:      {label: "katkıda bulunduğu kanallar", kind: KindCategory, query: channelsTab},
}

// ParseTab maps a tab name to a Tab. Unknown or empty names fall back to
// TabLatest.
func ParseTab(name string) Tab {
	if _, ok := tabs[Tab(name)]; ok {
		return Tab(name)
	}
	return TabLatest
}

// TabInfo describes a tab for navigation.
type TabInfo struct {
	Name  Tab        `json:"name"`
	Label string     `json:"label"`
	Kind  EntityKind `json:"type"`
}

// Tabs lists every profile tab in display order.
func Tabs() []TabInfo {
	out := make([]TabInfo, 0, len(tabOrder))
	for _, t := range tabOrder {
		spec := tabs[t]
		out = append(out, TabInfo{Name: t, Label: spec.label, Kind: spec.kind})
	}
	return out
}

func publishedBy(tx *gorm.DB, p *models.Author) *gorm.DB {
	return tx.Model(&models.Entry{}).
		Where("entries.author_id = ? AND entries.is_draft = ?", p.ID, false)
}

func latestTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return publishedBy(tx, p).Order("entries.created_at DESC, entries.id DESC")
}

func favoritesTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return tx.Model(&models.Entry{}).
		Select("entries.*").
		Joins("JOIN entry_favorites ON entry_favorites.entry_id = entries.id").
		Joins("JOIN authors ON authors.id = entries.author_id").
		Where("entry_favorites.author_id = ?", p.ID).
		Where("authors.is_novice = ? AND entries.is_draft = ?", false, false).
		Order("entry_favorites.created_at DESC, entries.id DESC")
}

func popularTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return publishedBy(tx, p).
		Select("entries.*").
		Joins("JOIN entry_favorites ON entry_favorites.entry_id = entries.id").
		Group("entries.id").
		Having("COUNT(entry_favorites.entry_id) >= ?", 1).
		Order("COUNT(entry_favorites.entry_id) DESC, entries.id DESC")
}

func likedTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return publishedBy(tx, p).
		Where("entries.vote_rate > ?", 0).
		Order("entries.vote_rate DESC, entries.id DESC")
}

func weeklyGoodsTab(tx *gorm.DB, p *models.Author, now time.Time) *gorm.DB {
	return likedTab(tx, p, now).Where("entries.created_at >= ?", now.AddDate(0, 0, -7))
}

func belovedTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return publishedBy(tx, p).
		Where("EXISTS (SELECT 1 FROM entry_favorites ef WHERE ef.entry_id = entries.id AND ef.author_id = ?)", p.ID).
		Order("entries.created_at DESC, entries.id DESC")
}

const lastVotedJoin = `JOIN (
	SELECT entry_id, MAX(created_at) AS last_voted FROM (
		SELECT entry_id, created_at FROM upvoted_entries
		UNION ALL
		SELECT entry_id, created_at FROM downvoted_entries
	) AS votes GROUP BY entry_id
) AS lv ON lv.entry_id = entries.id`

func recentlyVotedTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return publishedBy(tx, p).
		Select("entries.*").
		Joins(lastVotedJoin).
		Order("lv.last_voted DESC, entries.id DESC")
}

func authorsTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return tx.Model(&models.Author{}).
		Select("authors.*").
		Joins("JOIN entries ON entries.author_id = authors.id").
		Joins("JOIN entry_favorites ON entry_favorites.entry_id = entries.id").
		Where("entry_favorites.author_id = ?", p.ID).
		Where("authors.id <> ?", p.ID).
		Where("authors.is_active = ? AND authors.is_frozen = ? AND authors.is_private = ?", true, false, false).
		Where("authors.id NOT IN (SELECT blocked_id FROM author_blocks WHERE author_id = ?)", p.ID).
		Where("authors.id NOT IN (SELECT author_id FROM author_blocks WHERE blocked_id = ?)", p.ID).
		Group("authors.id").
		Having("COUNT(entries.id) > ?", 1).
		Order("COUNT(entries.id) DESC, authors.id ASC")
}

func wishesTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return tx.Model(&models.Topic{}).
		Select("topics.*").
		Joins("JOIN wishes ON wishes.topic_id = topics.id").
		Where("wishes.author_id = ?", p.ID).
		Group("topics.id").
		Order("MAX(wishes.created_at) DESC, topics.id DESC")
}

func channelsTab(tx *gorm.DB, p *models.Author, _ time.Time) *gorm.DB {
	return tx.Model(&models.Category{}).
		Select("categories.*").
		Joins("JOIN topic_categories ON topic_categories.category_id = categories.id").
		Joins("JOIN entries ON entries.topic_id = topic_categories.topic_id").
		Where("entries.author_id = ? AND entries.is_draft = ?", p.ID, false).
		Group("categories.id").
		Having("COUNT(entries.id) >= ?", 1).
		Order("COUNT(entries.id) DESC, categories.id ASC")
}
