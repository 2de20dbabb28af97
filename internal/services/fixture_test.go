package services

import (
	"context"
	"testing"
	"time"

	"sozluk/internal/db/dbtest"
	"sozluk/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	ctx      = context.Background()
	baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	t     *testing.T
	db    *gorm.DB
	topic *models.Topic
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, db: dbtest.Open(t)}
	f.topic = f.newTopic("deneme")
	return f
}

func (f *fixture) author(name string, opts ...func(*models.Author)) *models.Author {
	f.t.Helper()
	a := &models.Author{Username: name, Slug: name, Password: "x", IsActive: true, CreatedAt: baseTime}
	for _, opt := range opts {
		opt(a)
	}
	require.NoError(f.t, f.db.Create(a).Error)
	return a
}

func novice(a *models.Author) { a.IsNovice = true }
func frozen(a *models.Author) { a.IsFrozen = true }
func private(a *models.Author) { a.IsPrivate = true }

func (f *fixture) newTopic(title string) *models.Topic {
	f.t.Helper()
	topic := &models.Topic{Title: title, Slug: title, CreatedAt: baseTime}
	require.NoError(f.t, f.db.Create(topic).Error)
	return topic
}

type entryOpt func(*models.Entry)

func at(t time.Time) entryOpt { return func(e *models.Entry) { e.CreatedAt = t } }
func rate(hundredths int64) entryOpt { return func(e *models.Entry) { e.VoteRate = hundredths } }
func draft(e *models.Entry) { e.IsDraft = true }
func inTopic(t *models.Topic) entryOpt {
	return func(e *models.Entry) { e.TopicID = t.ID }
}

func (f *fixture) entry(author *models.Author, opts ...entryOpt) *models.Entry {
	f.t.Helper()
	e := &models.Entry{
		TopicID:   f.topic.ID,
		AuthorID:  author.ID,
		Content:   "bir entry",
		CreatedAt: baseTime,
	}
	for _, opt := range opts {
		opt(e)
	}
	require.NoError(f.t, f.db.Create(e).Error)
	return e
}

func (f *fixture) favorite(author *models.Author, entry *models.Entry, when time.Time) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.EntryFavorite{
		AuthorID: author.ID, EntryID: entry.ID, CreatedAt: when,
	}).Error)
}

func (f *fixture) block(author, blocked *models.Author) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.AuthorBlock{AuthorID: author.ID, BlockedID: blocked.ID}).Error)
}

func (f *fixture) score(entryID uint) string {
	f.t.Helper()
	var e models.Entry
	require.NoError(f.t, f.db.First(&e, entryID).Error)
	return e.Score().StringFixed(2)
}

func (f *fixture) count(model interface{}, where string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func entryIDs(entries []models.Entry) []uint {
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
