// Package requestid tags each request with an id, taken from the request
// headers when present and generated otherwise. The id is kept on the
// request context and echoed in the Request-ID response header, and is used
// by the exporter middleware as an exemplar value.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type idkey int

var ridKey idkey

// Header is the response header the middleware echoes the id in.
const Header = "Request-ID"

var headersToSearch = []string{
	"Request-ID", "X-Request-ID",
}

// Get reads the Request-ID or X-Request-ID header from r. If neither is
// set, an empty string is returned.
func Get(r *http.Request) string {
	for _, try := range headersToSearch {
		if id := r.Header.Get(try); id != "" {
			return id
		}
	}
	return ""
}

// WithRequestID returns a context with the given request id attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ridKey, id)
}

// FromContext returns the request id attached to ctx, or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ridKey).(string)
	return id
}

// Middleware ensures every request has an id available via FromContext:
// the inbound header value when the caller supplied one, a new random UUID
// otherwise. The id is also set on the response so callers can correlate.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Get(r)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(Header, id)

		ctx := WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
