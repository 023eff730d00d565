package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"eventdesk/internal/cache"
	"eventdesk/internal/httputil"
)

// cachedResponse is what the cache middleware stores per key
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// recorder buffers a handler's response so it can be stored and replayed
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(b)
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

// Cache serves GET responses from rc, keyed by the authenticated user and the
// request URI. Only 200 responses are stored. X-Cache reports HIT or MISS.
func Cache(rc *cache.ResponseCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := httputil.GetUserID(r)
			if r.Method != http.MethodGet || userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.Key(userID, r.URL.RequestURI())
			raw, hit := rc.Fill(r.Context(), key, func() ([]byte, bool) {
				rec := &recorder{header: make(http.Header)}
				next.ServeHTTP(rec, r)
				if rec.status == 0 {
					rec.status = http.StatusOK
				}
				encoded, err := json.Marshal(cachedResponse{
					Status:      rec.status,
					ContentType: rec.header.Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
				if err != nil {
					return nil, false
				}
				return encoded, rec.status == http.StatusOK
			})

			var resp cachedResponse
			if raw == nil || json.Unmarshal(raw, &resp) != nil {
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if resp.ContentType != "" {
				w.Header().Set("Content-Type", resp.ContentType)
			}
			if hit {
				w.Header().Set("X-Cache", "HIT")
			} else {
				w.Header().Set("X-Cache", "MISS")
			}
			w.WriteHeader(resp.Status)
			w.Write(resp.Body)
		})
	}
}
