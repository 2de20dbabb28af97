package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"sozluk/internal/db/dbtest"
	"sozluk/internal/metrics"
	"sozluk/internal/middleware"
	"sozluk/internal/models"
	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t       *testing.T
	engine  *gin.Engine
	db      *gorm.DB
	cookies []*http.Cookie
}

func newTestServer(t *testing.T, limiter *middleware.ClientRateLimiter) *testServer {
	gdb := dbtest.Open(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	reg := metrics.NewRegistry()
	m := metrics.NewVoteMetrics(reg)
	cache, err := utils.NewCache(16, clock)
	require.NoError(t, err)

	r := gin.New()
	r.Use(sessions.Sessions("sozluk_session", cookie.NewStore([]byte("test-secret"))))
	RegisterRoutes(r, Deps{
		DB:         gdb,
		Votes:      services.NewVoteService(gdb, services.DefaultRates, 0, m),
		Favorites:  services.NewFavoriteService(gdb, services.DefaultRates, m),
		Profiles:   services.NewProfileService(gdb, clock, 0),
		Entries:    services.NewEntryService(gdb),
		Categories: services.NewCategoryService(gdb),
		Mementos:   services.NewMementoService(gdb),
		Metrics:    m,
		Registry:   reg,
		Limiter:    limiter,
		Cache:      cache,
		CacheTTL:   time.Minute,
	})
	return &testServer{t: t, engine: r, db: gdb}
}

// do sends a request carrying the cookies collected so far.
func (s *testServer) do(method, path string, form url.Values) (int, map[string]interface{}) {
	s.t.Helper()
	var req *http.Request
	if method == http.MethodGet {
		if form != nil {
			path += "?" + form.Encode()
		}
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}

	var body map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func (s *testServer) author(name, password string) *models.Author {
	s.t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(s.t, err)
	a := &models.Author{Username: name, Slug: name, Password: hash, IsActive: true}
	require.NoError(s.t, s.db.Create(a).Error)
	return a
}

func (s *testServer) entry(author *models.Author) *models.Entry {
	s.t.Helper()
	topic := &models.Topic{Title: "baslik " + author.Slug, Slug: "baslik-" + author.Slug}
	require.NoError(s.t, s.db.FirstOrCreate(topic, models.Topic{Slug: topic.Slug}).Error)
	e := &models.Entry{TopicID: topic.ID, AuthorID: author.ID, Content: "(bkz: çay) ve https://example.com"}
	require.NoError(s.t, s.db.Create(e).Error)
	return e
}

func (s *testServer) login(name, password string) {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/login", url.Values{"username": {name}, "password": {password}})
	require.Equal(s.t, http.StatusOK, code, body)
}

func vote(entryID uint, direction string) url.Values {
	return url.Values{"entry_id": {idString(entryID)}, "vote": {direction}}
}

func TestAnonymousVoteUsesSession(t *testing.T) {
	s := newTestServer(t, nil)
	entry := s.entry(s.author("yazar", "parola123"))

	code, body := s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.10", body["score"])
	assert.Equal(t, true, body["voted"])
	assert.Equal(t, "up", body["vote"])
	require.NotEmpty(t, s.cookies)

	code, body = s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.00", body["score"])
	assert.Equal(t, false, body["voted"])

	s.cookies = nil
	code, body = s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "down"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "-0.10", body["score"])
}

func TestAnonymousVotesOutgrowingTheCookie(t *testing.T) {
	s := newTestServer(t, nil)
	owner := s.author("yazar", "parola123")

	var last *models.Entry
	for i := 0; i < 150; i++ {
		last = s.entry(owner)
		code, body := s.do(http.MethodPost, "/entry/vote", vote(last.ID, "up"))
		require.Equal(t, http.StatusOK, code, "vote %d", i)
		require.Equal(t, "0.10", body["score"], "vote %d", i)
	}

	code, body := s.do(http.MethodPost, "/entry/vote", vote(last.ID, "up"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.00", body["score"])
	assert.Equal(t, false, body["voted"])

	code, body = s.do(http.MethodPost, "/entry/vote", vote(last.ID, "up"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.10", body["score"])
	assert.Equal(t, true, body["voted"])
}

func TestAuthenticatedVote(t *testing.T) {
	s := newTestServer(t, nil)
	owner := s.author("yazar", "parola123")
	s.author("okur", "parola456")
	entry := s.entry(owner)

	s.login("okur", "parola456")
	code, body := s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.20", body["score"])

	code, body = s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "down"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "-0.20", body["score"])

	s.do(http.MethodPost, "/logout", url.Values{})
	s.login("yazar", "parola123")
	code, body = s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["success"])
}

func TestVoteRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)
	entry := s.entry(s.author("yazar", "parola123"))

	code, _ := s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "sideways"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/entry/vote", url.Values{"entry_id": {"abc"}, "vote": {"up"}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/entry/vote", vote(entry.ID+50, "up"))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t, nil)
	s.author("okur", "parola456")

	code, body := s.do(http.MethodPost, "/login", url.Values{"username": {"okur"}, "password": {"yanlis"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])
}

func TestEntryActions(t *testing.T) {
	s := newTestServer(t, nil)
	owner := s.author("yazar", "parola123")
	s.author("okur", "parola456")
	entry := s.entry(owner)
	target := url.Values{"entry_id": {idString(entry.ID)}}
	with := func(action string) url.Values {
		v := url.Values{"type": {action}}
		for k, vals := range target {
			v[k] = vals
		}
		return v
	}

	code, _ := s.do(http.MethodPost, "/entry/action", with("favorite"))
	assert.Equal(t, http.StatusUnauthorized, code)

	s.login("okur", "parola456")
	code, body := s.do(http.MethodPost, "/entry/action", with("favorite"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(1), body["status"])

	code, body = s.do(http.MethodGet, "/entry/action", with("favorite_list"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"okur"}, body["users"])
	assert.Equal(t, []interface{}{}, body["novices"])

	code, _ = s.do(http.MethodGet, "/entry/action", with("favorite"))
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	code, _ = s.do(http.MethodPost, "/entry/action", with("delete"))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/entry/action", with("explode"))
	assert.Equal(t, http.StatusBadRequest, code)

	s.do(http.MethodPost, "/logout", url.Values{})
	s.login("yazar", "parola123")
	code, body = s.do(http.MethodPost, "/entry/action", with("pin"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["pinned"])

	code, body = s.do(http.MethodPost, "/entry/action", with("delete"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/topic/baslik-yazar", body["redirect"])
}

func TestCategoryFollow(t *testing.T) {
	s := newTestServer(t, nil)
	s.author("okur", "parola456")
	category := &models.Category{Name: "spor", Slug: "spor"}
	require.NoError(t, s.db.Create(category).Error)
	form := url.Values{"type": {"follow"}, "category_id": {idString(category.ID)}}

	code, _ := s.do(http.MethodPost, "/category/action", form)
	assert.Equal(t, http.StatusUnauthorized, code)

	s.login("okur", "parola456")
	code, body := s.do(http.MethodPost, "/category/action", form)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["following"])

	code, body = s.do(http.MethodGet, "/categories/following", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["categories"], 1)
}

func TestProfileTabs(t *testing.T) {
	s := newTestServer(t, nil)
	profile := s.author("profil", "parola123")
	fan := s.author("okur", "parola456")
	entry := s.entry(profile)
	require.NoError(t, s.db.Create(&models.EntryFavorite{AuthorID: fan.ID, EntryID: entry.ID}).Error)

	code, body := s.do(http.MethodGet, "/author/profil/popular", nil)
	require.Equal(t, http.StatusOK, code)
	tab := body["tab"].(map[string]interface{})
	assert.Equal(t, "popular", tab["name"])
	assert.Equal(t, "entry", tab["type"])
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "0.00", item["score"])
	assert.Equal(t, float64(1), item["favorite_count"])
	assert.Contains(t, item["content_html"], `<a href="/topic/cay">çay</a>`)
	assert.Contains(t, item["content_html"], `rel="ugc nofollow noopener"`)

	code, body = s.do(http.MethodGet, "/author/profil", url.Values{"t": {"wishes"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "wishes", body["tab"].(map[string]interface{})["name"])
	assert.Equal(t, []interface{}{}, body["items"])

	code, body = s.do(http.MethodGet, "/author/profil/bilinmeyen", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "latest", body["tab"].(map[string]interface{})["name"])

	code, _ = s.do(http.MethodGet, "/author/yok", nil)
	assert.Equal(t, http.StatusNotFound, code)

	s.login("okur", "parola456")
	code, body = s.do(http.MethodGet, "/author/profil/latest", nil)
	require.Equal(t, http.StatusOK, code)
	item = body["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, item["is_favorited"])
}

func TestProfileCacheFollowsChanges(t *testing.T) {
	s := newTestServer(t, nil)
	profile := s.author("profil", "parola123")
	entry := s.entry(profile)

	score := func() string {
		code, body := s.do(http.MethodGet, "/author/profil/latest", nil)
		require.Equal(t, http.StatusOK, code)
		return body["items"].([]interface{})[0].(map[string]interface{})["score"].(string)
	}
	assert.Equal(t, "0.00", score())

	code, _ := s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.10", score(), "a vote drops the cached page")

	require.NoError(t, s.db.Model(profile).UpdateColumn("is_frozen", true).Error)
	code, _ = s.do(http.MethodGet, "/author/profil/latest", nil)
	assert.Equal(t, http.StatusNotFound, code, "a cached page must not outlive access")
}

func TestMemento(t *testing.T) {
	s := newTestServer(t, nil)
	s.author("profil", "parola123")
	s.author("okur", "parola456")
	s.author("baska", "parola789")

	code, _ := s.do(http.MethodPost, "/author/profil/memento", url.Values{"body": {"not"}})
	assert.Equal(t, http.StatusUnauthorized, code)

	s.login("okur", "parola456")
	code, body := s.do(http.MethodPost, "/author/profil/memento", url.Values{"body": {"iyi yazar"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "iyi yazar", body["memento"].(map[string]interface{})["body"])

	code, body = s.do(http.MethodGet, "/author/profil", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "iyi yazar", body["memento"].(map[string]interface{})["body"])

	code, _ = s.do(http.MethodPost, "/author/okur/memento", url.Values{"body": {"ben"}})
	assert.Equal(t, http.StatusBadRequest, code)

	s.do(http.MethodPost, "/logout", url.Values{})
	code, body = s.do(http.MethodGet, "/author/profil", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body, "memento")

	s.login("baska", "parola789")
	code, body = s.do(http.MethodGet, "/author/profil", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["memento"])
	assert.Contains(t, body, "memento")

	s.do(http.MethodPost, "/logout", url.Values{})
	s.login("okur", "parola456")
	code, body = s.do(http.MethodPost, "/author/profil/memento", url.Values{"body": {""}})
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["memento"])
	assert.Equal(t, int64(0), func() int64 {
		var n int64
		require.NoError(t, s.db.Model(&models.Memento{}).Count(&n).Error)
		return n
	}())
}

func TestVoteRateLimit(t *testing.T) {
	limiter := middleware.NewClientRateLimiter(1, 1, clockwork.NewFakeClock())
	s := newTestServer(t, limiter)
	entry := s.entry(s.author("yazar", "parola123"))

	code, _ := s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	assert.Equal(t, http.StatusOK, code)
	code, body := s.do(http.MethodPost, "/entry/vote", vote(entry.ID, "up"))
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, false, body["success"])

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sozluk_votes_rejected_total{reason="rate_limited"} 1`)
	assert.Contains(t, w.Body.String(), `sozluk_votes_total{direction="up",tier="anonymous",transition="cast"} 1`)
	assert.Contains(t, w.Body.String(), "sozluk_rate_limiter_clients 1")
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
