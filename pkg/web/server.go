/*
	Package web exposes sessions over http. Every client creates a session,
	gets back its id and drives the table through routes under that id:
	01) POST   /v1/sessions                     create a session
	02) PUT    /v1/sessions/{id}/config         reconfigure (resets the table)
	03) POST   /v1/sessions/{id}/keys/{key}     insert
	04) GET    /v1/sessions/{id}/keys/{key}     search
	05) DELETE /v1/sessions/{id}/keys/{key}     delete
	06) GET    /v1/sessions/{id}/stats          statistics
	07) GET    /v1/sessions/{id}/layout         slot or bucket contents
	08) DELETE /v1/sessions/{id}                close the session
	Bodies are json wrapped in {code, message, error, data}.
*/
package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/logger"
	"github.com/scottcagno/hashlab/pkg/metrics"
	"github.com/scottcagno/hashlab/pkg/session"
)

// Server routes http requests onto sessions
type Server struct {
	router   *mux.Router
	handler  http.Handler
	store    *Store
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	defaults session.Config
	limit    int
	log      *logger.Logger
}

// Option configures optional parts of a Server
type Option func(*Server)

// WithLogger sets the logger used for requests and sessions
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics records operations into m and serves /metrics from g
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithDefaults sets the config new sessions start from
func WithDefaults(conf session.Config) Option {
	return func(s *Server) {
		s.defaults = conf
	}
}

// WithSessionLimit caps the number of open sessions. Creating one more
// answers 503 until a session is closed.
func WithSessionLimit(n int) Option {
	return func(s *Server) {
		s.limit = n
	}
}

// NewServer returns a ready to serve http.Handler. Without WithMetrics it
// keeps its collectors on a private registry.
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		defaults: session.DefaultConfig(),
		log:      logger.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.store = NewStore(s.limit)
	if s.metrics == nil {
		reg := prometheus.NewRegistry()
		s.metrics = metrics.New(reg)
		s.gatherer = reg
	}
	s.routes()
	s.handler = NewChain(Recover(s.log), LogRequests(s.log)).Then(s.router)
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet, http.MethodHead)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1/sessions").Subrouter()
	api.HandleFunc("", s.createSession).Methods(http.MethodPost)
	api.HandleFunc("/{id}", s.closeSession).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/config", s.configure).Methods(http.MethodPut)
	api.HandleFunc("/{id}/config", s.config).Methods(http.MethodGet)
	api.HandleFunc("/{id}/keys/{key}", s.insert).Methods(http.MethodPost)
	api.HandleFunc("/{id}/keys/{key}", s.search).Methods(http.MethodGet)
	api.HandleFunc("/{id}/keys/{key}", s.delete).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/stats", s.stats).Methods(http.MethodGet)
	api.HandleFunc("/{id}/layout", s.layout).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Response(w, http.StatusNotFound, nil)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Sessions returns the number of open sessions
func (s *Server) Sessions() int {
	return s.store.Len()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	Response(w, http.StatusOK, map[string]int{"sessions": s.store.Len()})
}

// decodeConfig reads an optional json config from the request body on top
// of base. An empty body leaves base as is.
func decodeConfig(r *http.Request, base session.Config) (session.Config, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return base, errors.Wrap(ErrBadRequest, err.Error())
	}
	if len(body) == 0 {
		return base, nil
	}
	conf := base
	if err := json.Unmarshal(body, &conf); err != nil {
		// unknown strategy and method names keep their own sentinel
		if errors.Is(err, common.ErrUnknownStrategy) || errors.Is(err, common.ErrUnknownMethod) {
			return base, err
		}
		return base, errors.Wrapf(ErrBadRequest, "decoding config: %v", err)
	}
	return conf, nil
}

// createSession example: POST -> /v1/sessions {"capacity":10,"strategy":"linear","hash":"division"}
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.CheckLimit(); err != nil {
		s.log.Warnf("create session: %v", err)
		ResponseError(w, err, nil)
		return
	}
	conf, err := decodeConfig(r, s.defaults)
	if err != nil {
		ResponseError(w, err, nil)
		return
	}
	sess, err := session.New(conf, session.WithLogger(s.log))
	if err != nil {
		ResponseError(w, err, nil)
		return
	}
	id, err := s.store.Add(sess)
	if err != nil {
		s.log.Warnf("create session: %v", err)
		ResponseError(w, err, nil)
		return
	}
	s.metrics.SessionOpened(id, sess.Stats())
	Response(w, http.StatusCreated, struct {
		ID     string         `json:"id"`
		Config session.Config `json:"config"`
	}{
		ID:     id,
		Config: sess.Config(),
	})
}

// closeSession example: DELETE -> /v1/sessions/{id}
func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Remove(id); err != nil {
		ResponseError(w, err, nil)
		return
	}
	s.metrics.SessionClosed(id)
	Response(w, http.StatusOK, nil)
}

// withSession runs fn while holding the lock of the session named in the
// route. It writes the error response itself when there is no such session.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, sess *session.Session)) {
	id := mux.Vars(r)["id"]
	e, err := s.store.Get(id)
	if err != nil {
		ResponseError(w, err, nil)
		return
	}
	e.Lock()
	defer e.Unlock()
	fn(id, e.sess)
}

// key parses the key route variable
func key(r *http.Request) (int, error) {
	raw := mux.Vars(r)["key"]
	key, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(ErrBadRequest, "key %q is not an integer", raw)
	}
	return key, nil
}

// configure example: PUT -> /v1/sessions/{id}/config {"strategy":"chaining"}
func (s *Server) configure(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		conf, err := decodeConfig(r, sess.Config())
		if err != nil {
			ResponseError(w, err, nil)
			return
		}
		if err := sess.Configure(conf); err != nil {
			ResponseError(w, err, nil)
			return
		}
		s.metrics.SetStats(id, sess.Stats())
		Response(w, http.StatusOK, sess.Config())
	})
}

// config example: GET -> /v1/sessions/{id}/config
func (s *Server) config(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		Response(w, http.StatusOK, sess.Config())
	})
}

// insert example: POST -> /v1/sessions/{id}/keys/{key}
func (s *Server) insert(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		k, err := key(r)
		if err != nil {
			ResponseError(w, err, nil)
			return
		}
		res, err := sess.Insert(k)
		s.metrics.ObserveInsert(res, err)
		if err != nil {
			ResponseError(w, err, res)
			return
		}
		s.metrics.SetStats(id, sess.Stats())
		Response(w, http.StatusCreated, res)
	})
}

// search example: GET -> /v1/sessions/{id}/keys/{key}
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		k, err := key(r)
		if err != nil {
			ResponseError(w, err, nil)
			return
		}
		res, err := sess.Search(k)
		s.metrics.ObserveSearch(res, err)
		if err != nil {
			ResponseError(w, err, res)
			return
		}
		// a miss is still a successful search
		Response(w, http.StatusOK, res)
	})
}

// delete example: DELETE -> /v1/sessions/{id}/keys/{key}
func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		k, err := key(r)
		if err != nil {
			ResponseError(w, err, nil)
			return
		}
		res, err := sess.Delete(k)
		s.metrics.ObserveDelete(res, err)
		if err != nil {
			ResponseError(w, err, res)
			return
		}
		s.metrics.SetStats(id, sess.Stats())
		Response(w, http.StatusOK, res)
	})
}

// stats example: GET -> /v1/sessions/{id}/stats
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		Response(w, http.StatusOK, sess.Stats())
	})
}

// layout example: GET -> /v1/sessions/{id}/layout
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		Response(w, http.StatusOK, sess.View())
	})
}
