package handlers

import (
	"fmt"
	"time"

	"sozluk/internal/services"
	"sozluk/internal/utils"

	"github.com/gin-gonic/gin"
)

// ProfileCache holds profile tab pages rendered for anonymous viewers. A nil
// cache or a zero TTL disables it.
type ProfileCache struct {
	cache *utils.GlobalCache
	ttl   time.Duration
}

func NewProfileCache(cache *utils.GlobalCache, ttl time.Duration) *ProfileCache {
	return &ProfileCache{cache: cache, ttl: ttl}
}

func (p *ProfileCache) enabled() bool {
	return p != nil && p.cache != nil && p.ttl > 0
}

func profilePrefix(slug string) string {
	return "profile:" + slug + ":"
}

func profileCacheKey(slug string, tab services.Tab, page int) string {
	return fmt.Sprintf("%s%s:%d", profilePrefix(slug), tab, page)
}

func (p *ProfileCache) get(key string) (gin.H, bool) {
	if !p.enabled() {
		return nil, false
	}
	body, ok := p.cache.Get(key).(gin.H)
	return body, ok
}

func (p *ProfileCache) set(key string, body gin.H) {
	if p.enabled() {
		p.cache.Set(key, body, p.ttl)
	}
}

// Invalidate drops every cached page of the given profiles.
func (p *ProfileCache) Invalidate(slugs ...string) {
	if !p.enabled() {
		return
	}
	for _, slug := range slugs {
		if slug != "" {
			p.cache.DeletePrefix(profilePrefix(slug))
		}
	}
}
