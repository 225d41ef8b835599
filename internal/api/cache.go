package api

import (
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// responseCache memoizes successful GET responses, keyed by URL. Record
// lookups are cached briefly, option lists for longer; TTLs come from
// config.
type responseCache struct {
	c *gocache.Cache
}

type cachedResponse struct {
	body        []byte
	contentType string
}

func newResponseCache() *responseCache {
	return &responseCache{c: gocache.New(gocache.NoExpiration, 5*time.Minute)}
}

// cached wraps a GET handler so its 200 responses are served from cache for
// ttl. A TTL of zero disables caching.
func (a *API) cached(ttl time.Duration, next http.HandlerFunc) http.HandlerFunc {
	if ttl <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.RequestURI()
		if entry, found := a.cache.c.Get(key); found {
			resp := entry.(cachedResponse)
			w.Header().Set("Content-Type", resp.contentType)
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(resp.body)
			return
		}

		rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if rec.status == http.StatusOK {
			a.cache.c.Set(key, cachedResponse{
				body:        rec.buf,
				contentType: rec.Header().Get("Content-Type"),
			}, ttl)
		}
	}
}

// recordingWriter tees the response body so it can be cached.
type recordingWriter struct {
	http.ResponseWriter
	status int
	buf    []byte
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.status == http.StatusOK {
		w.buf = append(w.buf, p...)
	}
	return w.ResponseWriter.Write(p)
}
