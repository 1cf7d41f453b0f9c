package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scottcagno/hashlab/pkg/logger"
	"github.com/scottcagno/hashlab/pkg/util"
)

func tag(name string, trail *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trail = append(*trail, name)
			next.ServeHTTP(w, r)
		})
	}
}

func Test_Chain_Order(t *testing.T) {
	var trail []string
	c := NewChain(tag("a", &trail), tag("b", &trail), tag("c", &trail))
	h := c.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trail = append(trail, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	util.AssertExpected(t, []string{"a", "b", "c", "handler"}, trail)
}

func Test_LogRequests(t *testing.T) {
	buf := new(bytes.Buffer)
	l := logger.NewLogger(buf)
	h := LogRequests(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))
	util.AssertTrue(t, strings.Contains(buf.String(), "GET /brew 418"))
}

func Test_Recover(t *testing.T) {
	h := Recover(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	util.AssertExpected(t, http.StatusInternalServerError, rec.Code)
}
