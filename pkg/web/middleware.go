package web

import (
	"net/http"
	"time"

	"github.com/scottcagno/hashlab/pkg/logger"
)

// Middleware is a piece of middleware.
type Middleware func(http.Handler) http.Handler

// Chain acts as a list of http.Handler middlewares. It's effectively immutable.
type Chain struct {
	mw []Middleware
}

// NewChain creates a new chain, memorizing the given list of middleware handlers.
// Middlewares are only called upon a call to Then().
func NewChain(mw ...Middleware) *Chain {
	return &Chain{
		mw: append(([]Middleware)(nil), mw...),
	}
}

// Then chains the middleware and returns the final http.Handler. The first
// middleware of the chain sees the request first.
func (c *Chain) Then(handler http.Handler) http.Handler {
	for i := range c.mw {
		handler = c.mw[len(c.mw)-1-i](handler)
	}
	return handler
}

// statusWriter remembers the status code written through it
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.code = code
	sw.ResponseWriter.WriteHeader(code)
}

// LogRequests logs one line per request at info level
func LogRequests(l *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)
			l.Infof("%s %s %d %s", r.Method, r.URL.Path, sw.code, time.Since(start))
		}
		return http.HandlerFunc(fn)
	}
}

// Recover turns a panicking handler into a 500 response
func Recover(l *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					l.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, err)
					code := http.StatusInternalServerError
					http.Error(w, http.StatusText(code), code)
				}
			}()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
