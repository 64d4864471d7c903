package cachemanager

import (
	"context"
	"time"

	"github.com/zjrosen/musichub/internal/isrc"
	"github.com/zjrosen/musichub/internal/log"
)

// KnownTrack is what the client has learned about an ISRC, either from a
// successful registration or from the recent-tracks list.
type KnownTrack struct {
	Title   string
	Artists string
	Status  string
}

// KnownTracks remembers tracks by normalized ISRC.
type KnownTracks struct {
	cache CacheManager[string, KnownTrack]
	ttl   time.Duration
}

// NewKnownTracks creates a known-track cache with entries living for ttl.
func NewKnownTracks(ttl time.Duration) *KnownTracks {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &KnownTracks{
		cache: NewInMemoryCacheManager[string, KnownTrack]("known-tracks", ttl, DefaultCleanupInterval),
		ttl:   ttl,
	}
}

// Remember records t under the normalized form of code. Entries without a
// title or with an invalid code are ignored.
func (k *KnownTracks) Remember(code string, t KnownTrack) {
	norm := isrc.Normalize(code)
	if t.Title == "" || !isrc.IsValid(norm) {
		return
	}
	k.cache.Set(context.Background(), norm, t, k.ttl)
	log.Debug(log.CatCache, "remembered track", "isrc", norm, "title", t.Title)
}

// Lookup finds a track by any spelling of its ISRC. Hits extend the entry's
// lifetime.
func (k *KnownTracks) Lookup(code string) (KnownTrack, bool) {
	norm := isrc.Normalize(code)
	if !isrc.IsValid(norm) {
		return KnownTrack{}, false
	}
	return k.cache.GetWithRefresh(context.Background(), norm, k.ttl)
}

// Forget drops codes.
func (k *KnownTracks) Forget(codes ...string) {
	norm := make([]string, 0, len(codes))
	for _, c := range codes {
		norm = append(norm, isrc.Normalize(c))
	}
	k.cache.Delete(context.Background(), norm...)
}

// Len returns the number of remembered tracks.
func (k *KnownTracks) Len() int {
	return k.cache.Len()
}
